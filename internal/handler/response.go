package handler

type HistoryResponse struct {
	UserID  int64          `json:"user_id"`
	Entries []HistoryEntry `json:"entries"`
}

type HistoryEntry struct {
	EndpointName string   `json:"endpoint_name"`
	ItemIDs      []string `json:"item_ids"`
	CreatedAt    string   `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
