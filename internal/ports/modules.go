package ports

// TestingAccount is a development credential pair attached to a module
// descriptor, used for one-time auto-login in non-production setups.
type TestingAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ModuleDescriptor describes one dashboard module as listed in the module
// registry file.
type ModuleDescriptor struct {
	Name           string          `json:"name"`
	Label          string          `json:"label"`
	TestingAccount *TestingAccount `json:"testingAccount,omitempty"`
}

// ModuleRegistry exposes the configured dashboard modules by name.
type ModuleRegistry interface {
	Lookup(name string) (ModuleDescriptor, bool)
}
