package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ignite/contact-api/internal/signup"
	"github.com/ignite/contact-api/internal/validate"
)

// JoinMailingList handles POST /joinMailingList. Signups are idempotent: an
// email already on the list short-circuits to success, and a concurrent
// duplicate insert is collapsed by the store's unique-key handling.
func (h *Handlers) JoinMailingList(w http.ResponseWriter, r *http.Request) {
	var in validate.SignupInput
	if err := decodeSignup(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := in.Validate(); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	listID, email := in.Values()
	ctx := r.Context()

	list, err := h.store.FindList(ctx, listID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not process signup")
		return
	}
	if list == nil {
		// Unknown lists are reported in a 200 body, not a 4xx status.
		// Existing form clients depend on this shape.
		respondJSON(w, http.StatusOK, map[string]string{
			"error":  "Invalid Mailing List ID",
			"listId": listID,
		})
		return
	}

	existing, err := h.store.FindSignup(ctx, listID, email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not process signup")
		return
	}
	if existing != nil {
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	if err := h.store.InsertSignup(ctx, listID, email); err != nil {
		if !errors.Is(err, signup.ErrAlreadySignedUp) {
			respondError(w, http.StatusInternalServerError, "could not process signup")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func decodeSignup(r *http.Request, in *validate.SignupInput) error {
	if isJSON(r) {
		return json.NewDecoder(r.Body).Decode(in)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	in.ListID = r.PostFormValue("listId")
	in.Email = r.PostFormValue("email")
	return nil
}
