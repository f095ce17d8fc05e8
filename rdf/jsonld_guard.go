package rdf

// AuditContext rejects @context values that reference remote documents.
//
// A string is a reference when it is an http(s) URL. In a list, only direct
// string entries are references; maps are inline term definitions and are not
// scanned, at the top level or inside the list.
func AuditContext(value any) error {
	switch ctx := value.(type) {
	case string:
		if absoluteURLPattern.MatchString(ctx) {
			return policyViolationError(ctx)
		}
	case []any:
		for _, item := range ctx {
			if s, ok := item.(string); ok && absoluteURLPattern.MatchString(s) {
				return policyViolationError(s)
			}
		}
	}
	return nil
}
