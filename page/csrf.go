package page

import "net/http"

// CSRFHeader filters metas down to the anti-forgery token named tokenField
// and returns the header entries the next request must carry, each named
// headerName with the meta's content as value.
//
// The token field and header names are parameters because the flow uses two
// distinct pairs: the standard page token and the FIDO2-branch token. An
// empty result is not an error here; a missing token surfaces later as a
// validation failure on the response the portal rejects.
func CSRFHeader(metas []MetaToken, tokenField, headerName string) http.Header {
	h := make(http.Header)
	for _, m := range metas {
		if m.Name == tokenField {
			h.Add(headerName, m.Content)
		}
	}
	return h
}
