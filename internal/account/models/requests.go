package models

// ProvisionRequest carries the sign-up form. Fields reach the identity
// provider and the enrichment steps exactly as supplied; email and password
// checks belong to the provider.
type ProvisionRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
