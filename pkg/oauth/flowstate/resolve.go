package flowstate

// Credential context can come from several places. ResolutionOrder names
// the precedence applied independently to each field: the first source with
// a non-empty value wins.
const (
	// SourceOverride is an explicit per-call override.
	SourceOverride = "override"
	// SourceCaller is the caller-supplied seed (request body or the seed
	// embedded in the correlation state).
	SourceCaller = "caller"
	// SourceStored is the stored credential record.
	SourceStored = "stored"
)

// ResolutionOrder is the fixed precedence for credential context fields.
var ResolutionOrder = []string{SourceOverride, SourceCaller, SourceStored}

// CredentialSources holds the optional inputs to resolution. Any of the
// three may be nil.
type CredentialSources struct {
	Override *CredentialSeed
	Caller   *CredentialSeed
	Stored   *CredentialSeed
}

func (s CredentialSources) bySource(name string) *CredentialSeed {
	switch name {
	case SourceOverride:
		return s.Override
	case SourceCaller:
		return s.Caller
	case SourceStored:
		return s.Stored
	}
	return nil
}

// Resolve returns the effective credential context: for each field, the
// first non-empty value in ResolutionOrder. Fields with no value in any
// source stay empty; callers decide whether that is fatal.
func Resolve(sources CredentialSources) CredentialSeed {
	var out CredentialSeed
	for _, name := range ResolutionOrder {
		seed := sources.bySource(name)
		if seed == nil {
			continue
		}
		if out.ClientID == "" {
			out.ClientID = seed.ClientID
		}
		if out.ClientSecret == "" {
			out.ClientSecret = seed.ClientSecret
		}
		if out.RedirectURI == "" {
			out.RedirectURI = seed.RedirectURI
		}
	}
	return out
}
