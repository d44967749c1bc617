package models

const (
	DriverActive     = "active"
	VehicleAvailable = "available"
)

type Driver struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

// Vehicle is a physical unit of the fleet.
type Vehicle struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Registration string `json:"registration"`
	ModelName    string `json:"model_name"`
	Status       string `json:"status"`
}

// Owner is the fleet-operator tenant that signs in to the dashboard.
type Owner struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
