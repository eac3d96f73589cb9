package ticket

// RepositoryValidation holds the result of repository validation
type RepositoryValidation struct {
	Valid         bool
	Owner         string
	Repo          string
	FullName      string
	IsPrivate     bool
	IssuesEnabled bool
	ErrorMessage  string
}
