package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/service"
	"github.com/mmynk/billtracker/internal/storage"
)

const (
	msgBillNotFound = "Bill not found."
	msgLoggedOut    = "You have been logged out."
)

// userHandlerFunc is a handler that runs only once the session has been
// resolved to a user. The user is passed in rather than looked up again.
type userHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User)

// requireUser is the session gate. Without a session it redirects to
// /setup; with a session whose user no longer exists it also clears the
// session first.
func (s *Server) requireUser(next userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Load(r)
		if errors.Is(err, auth.ErrInvalidSession) {
			s.logger.Debug("Discarding invalid session", "error", err)
		}

		user, err := s.bills.CurrentUser(r.Context(), sess.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			if sess.UserID != "" {
				sess.Clear()
			}
			s.redirect(w, r, sess, "/setup")
			return
		}
		if err != nil {
			s.serverError(w, r, err)
			return
		}

		middleware.SetUserID(r.Context(), user.ID)
		next(w, r, sess, user)
	}
}

// loadSession is used by handlers outside the gate.
func (s *Server) loadSession(r *http.Request) *auth.Session {
	sess, err := s.sessions.Load(r)
	if errors.Is(err, auth.ErrInvalidSession) {
		s.logger.Debug("Discarding invalid session", "error", err)
	}
	return sess
}

func (s *Server) index(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
	dashboard, err := s.bills.Dashboard(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, sess, http.StatusOK, pageIndex, &pageData{
		User:      user,
		Dashboard: dashboard,
	})
}

func (s *Server) setupForm(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(r)
	s.render(w, r, sess, http.StatusOK, pageSetup, &pageData{})
}

func (s *Server) setupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(r)
	email := r.PostFormValue("email")
	phoneNumber := r.PostFormValue("phone_number")

	res, err := s.bills.Setup(r.Context(), email, phoneNumber)
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		s.logger.Warn("Setup validation failed", "errors", len(verrs))
		flashAll(sess, verrs)
		s.render(w, r, sess, http.StatusOK, pageSetup, &pageData{
			Email:       email,
			PhoneNumber: phoneNumber,
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	sess.UserID = res.User.ID
	middleware.SetUserID(r.Context(), res.User.ID)
	if res.Created {
		sess.AddFlash(fmt.Sprintf("Welcome, %s! You can now start adding bills.", res.User.Email), auth.FlashSuccess)
	} else {
		sess.AddFlash(fmt.Sprintf("Welcome back, %s!", res.User.Email), auth.FlashSuccess)
	}
	s.redirect(w, r, sess, "/")
}

func (s *Server) addBillForm(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
	s.render(w, r, sess, http.StatusOK, pageAddBill, &pageData{User: user})
}

func (s *Server) addBillSubmit(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
	in := billInput(r)

	bill, err := s.bills.AddBill(r.Context(), user.ID, in)
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		s.logger.Warn("Add bill validation failed", "user_id", user.ID, "errors", len(verrs))
		flashAll(sess, verrs)
		s.render(w, r, sess, http.StatusOK, pageAddBill, &pageData{
			User: user,
			Form: in.Trimmed(),
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	sess.AddFlash(fmt.Sprintf("Bill \"%s\" added successfully!", bill.Name), auth.FlashSuccess)
	sess.AddFlash(fmt.Sprintf(
		"Reminder notifications will be sent to %s and %s starting %d days before the due date.",
		user.Email, user.PhoneNumber, models.DueSoonDays,
	), auth.FlashInfo)
	s.redirect(w, r, sess, "/")
}

func (s *Server) editBillForm(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
	bill, err := s.bills.GetBill(r.Context(), user.ID, r.PathValue("bill_id"))
	if err != nil {
		s.billError(w, r, sess, err)
		return
	}

	s.render(w, r, sess, http.StatusOK, pageEditBill, &pageData{
		User: user,
		Bill: bill,
	})
}

func (s *Server) editBillSubmit(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
	bill, err := s.bills.UpdateBill(r.Context(), user.ID, r.PathValue("bill_id"), billInput(r))
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		s.logger.Warn("Edit bill validation failed", "user_id", user.ID, "bill_id", bill.ID, "errors", len(verrs))
		flashAll(sess, verrs)
		s.render(w, r, sess, http.StatusOK, pageEditBill, &pageData{
			User: user,
			Bill: bill,
		})
		return
	}
	if err != nil {
		s.billError(w, r, sess, err)
		return
	}

	sess.AddFlash(fmt.Sprintf("Bill \"%s\" updated successfully!", bill.Name), auth.FlashSuccess)
	s.redirect(w, r, sess, "/")
}

func (s *Server) setPaid(paid bool) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
		bill, err := s.bills.SetPaid(r.Context(), user.ID, r.PathValue("bill_id"), paid)
		if err != nil {
			s.billError(w, r, sess, err)
			return
		}

		if paid {
			sess.AddFlash(fmt.Sprintf("Bill \"%s\" marked as paid!", bill.Name), auth.FlashSuccess)
		} else {
			sess.AddFlash(fmt.Sprintf("Bill \"%s\" marked as unpaid.", bill.Name), auth.FlashInfo)
		}
		s.redirect(w, r, sess, "/")
	}
}

func (s *Server) deleteBill(w http.ResponseWriter, r *http.Request, sess *auth.Session, user *models.User) {
	bill, err := s.bills.DeleteBill(r.Context(), user.ID, r.PathValue("bill_id"))
	if err != nil {
		s.billError(w, r, sess, err)
		return
	}

	sess.AddFlash(fmt.Sprintf("Bill \"%s\" deleted successfully.", bill.Name), auth.FlashSuccess)
	s.redirect(w, r, sess, "/")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(r)
	sess.Clear()
	sess.AddFlash(msgLoggedOut, auth.FlashInfo)
	s.redirect(w, r, sess, "/setup")
}

// billError maps a missing or foreign bill to a notice and a dashboard
// redirect. Anything else is a server error.
func (s *Server) billError(w http.ResponseWriter, r *http.Request, sess *auth.Session, err error) {
	if !errors.Is(err, storage.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	sess.AddFlash(msgBillNotFound, auth.FlashError)
	s.redirect(w, r, sess, "/")
}

func billInput(r *http.Request) service.BillInput {
	return service.BillInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("due_date"),
		Amount:      r.PostFormValue("amount"),
	}
}

func flashAll(sess *auth.Session, msgs []string) {
	for _, msg := range msgs {
		sess.AddFlash(msg, auth.FlashError)
	}
}
