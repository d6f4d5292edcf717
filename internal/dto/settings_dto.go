package dto

type SettingsResponse struct {
	KnowledgeBaseID string `json:"knowledge_base_id"`
	DataSourceID    string `json:"data_source_id"`
	BucketName      string `json:"bucket_name"`
	ModelID         string `json:"model_id"`
}

type UpdateSettingsRequest struct {
	KnowledgeBaseID string `json:"knowledge_base_id" validate:"required"`
	DataSourceID    string `json:"data_source_id" validate:"required"`
	BucketName      string `json:"bucket_name" validate:"required"`
	ModelID         string `json:"model_id" validate:"required"`
}
