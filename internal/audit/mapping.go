package audit

import (
	"strings"
	"unicode"
)

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Method overrides where the verb alone loses the meaning.
var overrides = map[string]ActionResource{
	"/tgate.v1.IdentityService/AddIssuer":        {Action: "issuer_added", Resource: "identity"},
	"/tgate.v1.StepUpService/ApproveTransaction": {Action: "transaction_approved", Resource: "step_up"},
	"/tgate.v1.RecoveryService/RecoverAccount":   {Action: "account_recovered", Resource: "recovery"},
	"/tgate.v1.GateService/AuthorizeTransfer":    {Action: "transfer_authorization", Resource: "gate"},
}

// ParseFullMethod returns action and resource for a gRPC full method
// (e.g. /tgate.v1.IdentityService/IssueIdentity -> issue, identity).
// Action is the method's leading verb in lower case; resource is the service
// name without the Service suffix, in snake case.
func ParseFullMethod(fullMethod string) ActionResource {
	if ar, ok := overrides[fullMethod]; ok {
		return ar
	}
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: snake(leadingWord(method)), Resource: "unknown"}
	}
	resource := strings.TrimSuffix(beforeSlash[dot+1:], "Service")
	if resource == "" {
		resource = "unknown"
	}
	action := leadingWord(method)
	if action == "" {
		action = "unknown"
	}
	return ActionResource{Action: snake(action), Resource: snake(resource)}
}

// leadingWord returns the first CamelCase word of s.
func leadingWord(s string) string {
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			return s[:i]
		}
	}
	return s
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
