package hgraph

// Deref returns the output view an input currently resolves to after
// following its link and any chain of references, the same one-shot
// indirection TSInputView's own read methods perform internally. Exposed
// separately for host bindings that need the resolved output itself rather
// than just the value it carries.
func Deref(v TSInputView) (TSOutputView, bool) {
	if v.link == nil {
		return TSOutputView{}, false
	}
	target := v.link.Resolve()
	if target.output.value == nil {
		return TSOutputView{}, false
	}
	return target.output, true
}
