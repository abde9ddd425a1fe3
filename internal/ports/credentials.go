package ports

// CredentialStore keeps opaque secrets keyed by service and account
type CredentialStore interface {
	Delete(serviceID, accountID string) error
	Read(serviceID, accountID string) (string, error)
	Save(secret, serviceID, accountID string) error
}
