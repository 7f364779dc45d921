package main

import (
	"errors"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/PaulBabatuyi/authapi/internal/accounts"
	"github.com/PaulBabatuyi/authapi/internal/apperr"
	"github.com/PaulBabatuyi/authapi/internal/data"
)

// accountView is the public shape of an account. The password never leaves the service.
type accountView struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

func newAccountView(a *data.Account) accountView {
	return accountView{
		ID:        a.ID.Hex(),
		FullName:  a.FullName,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		LastLogin: a.LastLogin,
	}
}

// health reports process and database status. It never fails.
func (s *Server) health(c fiber.Ctx) error {
	st := s.status.GetStatus()
	body := fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database": fiber.Map{
			"status":    st.StateLabel,
			"connected": st.Connected,
		},
		"server": fiber.Map{
			"uptime": time.Since(s.started).Seconds(),
		},
	}
	if s.cfg.VerboseHealth {
		body["environment"] = s.cfg.Environment
		body["goroutines"] = runtime.NumGoroutine()
		body["goVersion"] = runtime.Version()
	}
	return c.JSON(body)
}

// testDB runs a count against the users collection.
func (s *Server) testDB(c fiber.Ctx) error {
	n, err := s.accounts.Count(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "database connection successful",
		"userCount": n,
	})
}

func (s *Server) register(c fiber.Ctx) error {
	var in accounts.RegisterInput
	if err := c.Bind().JSON(&in); err != nil {
		return s.writeError(c, apperr.Validation("invalid request body"))
	}

	a, err := s.accounts.Register(c.Context(), in)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"user": fiber.Map{
			"id":        a.ID.Hex(),
			"fullName":  a.FullName,
			"email":     a.Email,
			"createdAt": a.CreatedAt,
		},
	})
}

func (s *Server) login(c fiber.Ctx) error {
	var in accounts.LoginInput
	if err := c.Bind().JSON(&in); err != nil {
		return s.writeError(c, apperr.Validation("invalid request body"))
	}

	a, err := s.accounts.Login(c.Context(), in)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"user": fiber.Map{
			"id":        a.ID.Hex(),
			"fullName":  a.FullName,
			"email":     a.Email,
			"lastLogin": a.LastLogin,
		},
	})
}

func (s *Server) listUsers(c fiber.Ctx) error {
	list, err := s.accounts.List(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}
	users := make([]accountView, 0, len(list))
	for _, a := range list {
		users = append(users, newAccountView(a))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

func (s *Server) clearUsers(c fiber.Ctx) error {
	n, err := s.accounts.Clear(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "all users cleared",
		"deletedCount": n,
	})
}

// latestVideo returns the newest content item, or null when there is none.
func (s *Server) latestVideo(c fiber.Ctx) error {
	item, err := s.content.GetLatest(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}
	if item == nil {
		return c.JSON(nil)
	}
	return c.JSON(item)
}

func (s *Server) apiNotFound(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success":            false,
		"message":            "API endpoint not found",
		"path":               c.Path(),
		"availableEndpoints": s.availableEndpoints(),
	})
}

// writeError encodes a service error as {success:false, message, code}.
func (s *Server) writeError(c fiber.Ctx, err error) error {
	code := apperr.HTTPStatus(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": apperr.Message(err),
		"code":    apperr.KindOf(err).String(),
	})
}

// errorHandler handles errors returned from handlers and middleware, including recovered panics.
func (s *Server) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
