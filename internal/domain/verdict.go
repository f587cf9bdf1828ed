package domain

type Verdict string

const (
	// VerdictNone means the draft was not judged.
	VerdictNone         Verdict = ""
	VerdictValid        Verdict = "valid"
	VerdictInvalidURL   Verdict = "invalid_url"
	VerdictUnreachable  Verdict = "unreachable"
	VerdictInvalidToken Verdict = "invalid_token"
	VerdictTimeout      Verdict = "timeout"
	VerdictSkipped      Verdict = "skipped"
	VerdictGeneralError Verdict = "general_error"
)

// IsError reports whether the verdict should block committing the draft.
func (v Verdict) IsError() bool {
	switch v {
	case VerdictNone, VerdictValid, VerdictSkipped:
		return false
	default:
		return true
	}
}

func (v Verdict) Message() string {
	switch v {
	case VerdictValid:
		return "Settings are valid"
	case VerdictInvalidURL:
		return "Provided server URL is not valid (must start with http:// or https://)"
	case VerdictUnreachable:
		return "Server cannot be reached"
	case VerdictInvalidToken:
		return "Provided API token is not valid"
	case VerdictTimeout:
		return "Server did not answer in time"
	case VerdictSkipped:
		return "Nothing to validate"
	case VerdictGeneralError:
		return "General error while validating settings"
	default:
		return ""
	}
}
