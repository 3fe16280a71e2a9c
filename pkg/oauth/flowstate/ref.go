package flowstate

// CredentialRef distinguishes the two callback reconciliation paths: a flow
// attached to an existing stored credential versus a flow that creates one
// after a successful exchange. The tagged form keeps the sentinel check out
// of calling code.
type CredentialRef struct {
	id   string
	seed *CredentialSeed
}

// ExistingCredential references a stored credential by id.
func ExistingCredential(id string) CredentialRef {
	return CredentialRef{id: id}
}

// PendingCredential references a credential that does not exist yet; the
// seed holds the client configuration the new record will be created with.
// A nil seed is allowed here; the callback handler rejects it as a lost
// seed when the flow completes.
func PendingCredential(seed *CredentialSeed) CredentialRef {
	return CredentialRef{seed: seed}
}

// IsPending reports whether this flow creates a new credential.
func (r CredentialRef) IsPending() bool {
	return r.id == ""
}

// ID returns the stored credential id. Empty for pending flows.
func (r CredentialRef) ID() string {
	return r.id
}

// Seed returns the embedded client configuration for pending flows, or nil.
func (r CredentialRef) Seed() *CredentialSeed {
	return r.seed
}
