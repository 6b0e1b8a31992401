package lrs

// Capability names consumed from the Auth collaborator. Permission decision
// logic lives outside this layer; the engine only asks yes/no.
const (
	CapRead     = "statements/read"
	CapReadMine = "statements/read/mine"
	CapWrite    = "statements/write"
	CapDefine   = "define"
	CapSuper    = "super"
)

// Auth is the already-authenticated acting principal. Implementations are
// provided by the surrounding application (token layer, CLI, tests).
type Auth interface {
	// HasPermission reports whether the caller holds a capability.
	HasPermission(capability string) bool

	// UserID returns the caller's principal id, stamped onto inserted
	// statements and used for "mine"-only visibility scoping.
	UserID() string

	// GenerateAuthority derives the authority value asserted on behalf of
	// the caller's access credential.
	GenerateAuthority() map[string]any
}

// StaticAuth is a fixed-principal Auth, used by the CLI and tests.
type StaticAuth struct {
	User        string
	Permissions []string
	Authority   map[string]any
}

func (a *StaticAuth) HasPermission(capability string) bool {
	for _, p := range a.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}

func (a *StaticAuth) UserID() string { return a.User }

func (a *StaticAuth) GenerateAuthority() map[string]any {
	if a.Authority != nil {
		return a.Authority
	}
	return map[string]any{
		"objectType": "Agent",
		"account": map[string]any{
			"homePage": "http://localhost",
			"name":     a.User,
		},
	}
}
