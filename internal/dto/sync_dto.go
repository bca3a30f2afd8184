package dto

type RunSyncRequest struct {
	Direction  string `json:"direction" validate:"required,oneof=pull push bidirectional"`
	EntityType string `json:"entity_type" validate:"omitempty,oneof=product category supplier all"`
}

type ResolveConflictRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=local_wins remote_wins manual"`
}
