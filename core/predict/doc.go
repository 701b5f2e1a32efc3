// Package predict orchestrates feature derivation and model invocation to
// answer single and batch fare prediction requests. It owns the model
// selection and fallback policy, the non-negative fare clamp, and the
// per-item error isolation of batch calls.
package predict
