package models

// Hotel is read-mostly: the console never creates or deletes hotels.
type Hotel struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Name      string `json:"name"`
}
