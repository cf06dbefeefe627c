package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ignite/contact-api/internal/mailer"
	"github.com/ignite/contact-api/internal/validate"
)

// Contact handles POST /contact. A valid submission queues one notification
// email and immediately redirects to the caller-supplied target; the
// response never depends on whether the email goes out.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var in validate.ContactInput
	if err := decodeContact(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := in.Validate()
	if !allowedRedirect(in.Redirect, h.server.AllowedRedirectOrigins) {
		errs = append(errs, validate.FieldError{
			Field:   "redirect",
			Message: "must be a relative path or an allowed origin",
		})
	}
	if len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	name, email, message := in.Values()
	h.relay.Enqueue(mailer.Message{
		From:    h.mail.User,
		To:      h.mail.Recipient,
		Subject: "New message from your website!",
		Body:    fmt.Sprintf("Name: %s \nEmail: %s \nMessage: %s", name, email, message),
	})

	http.Redirect(w, r, in.Redirect+"?response=success", http.StatusMovedPermanently)
}

func decodeContact(r *http.Request, in *validate.ContactInput) error {
	if isJSON(r) {
		return json.NewDecoder(r.Body).Decode(in)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	in.Name = r.PostFormValue("name")
	in.Email = r.PostFormValue("email")
	in.Message = r.PostFormValue("message")
	in.Redirect = r.PostFormValue("redirect")
	return nil
}
