package accounts

type Repo interface {
	// Create stores a new account; errors.ErrAccountExists if the email is taken.
	Create(account Account) error
	// Upsert creates or replaces the account with the same LocalID.
	Upsert(account Account) error
	GetByEmail(email string) (Account, error)
	GetByID(localID string) (Account, error)
	Delete(localID string) error
}
