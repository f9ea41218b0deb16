package page

// Inject returns a copy of fields with the value of the first text-kind
// field replaced by usernameValue and the value of the first password-kind
// field replaced by passwordValue. Either replacement is a no-op when no
// field of that kind exists. Length and order are always preserved, and at
// most one field of each kind changes per call.
//
// The same function serves every submission step: the email-OTP and TOTP
// codes ride in the text slot with an empty password value.
func Inject(fields []FormField, usernameValue, passwordValue string) []FormField {
	out := make([]FormField, len(fields))
	copy(out, fields)

	textDone, passwordDone := false, false
	for i := range out {
		switch {
		case !textDone && out[i].Kind == KindText:
			out[i].Value = usernameValue
			textDone = true
		case !passwordDone && out[i].Kind == KindPassword:
			out[i].Value = passwordValue
			passwordDone = true
		}
	}
	return out
}
