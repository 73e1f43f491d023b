package handler

import (
    "errors"   // errors.Is for service sentinels
    "log"      // log internal failures
    "net/http" // HTTP status codes and primitives

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/railway-booking/internal/service" // signup/login logic
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
    return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type signupReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
    Email    string `json:"email"`
}
type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

// statusResp is the {status, status_code} envelope used by signup and login.
type statusResp struct {
    Status      string `json:"status"`
    StatusCode  int    `json:"status_code"`
    UserID      uint64 `json:"user_id,omitempty"`
    AccessToken string `json:"access_token,omitempty"`
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(c echo.Context) error {
    var req signupReq
    if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide all required fields."})
    }

    uid, err := h.Auth.Signup(c.Request().Context(), req.Username, req.Password, req.Email)
    switch {
    case err == nil:
    case errors.Is(err, service.ErrDuplicateUser):
        return c.JSON(http.StatusConflict, echo.Map{"error": "Username or email already exists."})
    case errors.Is(err, service.ErrValidation):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide all required fields."})
    default:
        log.Printf("handler: signup failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
    }

    return c.JSON(http.StatusOK, statusResp{
        Status:     "Account successfully created",
        StatusCode: http.StatusOK,
        UserID:     uid,
    })
}

// Login handles POST /api/login and returns an access token on success.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, statusResp{
            Status: "Please provide both username and password.", StatusCode: http.StatusBadRequest,
        })
    }

    res, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
    switch {
    case err == nil:
    case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrValidation):
        return c.JSON(http.StatusUnauthorized, statusResp{
            Status: "Incorrect username/password provided. Please retry", StatusCode: http.StatusUnauthorized,
        })
    default:
        log.Printf("handler: login failed: %v", err)
        return c.JSON(http.StatusInternalServerError, statusResp{
            Status: "Authentication error", StatusCode: http.StatusInternalServerError,
        })
    }

    return c.JSON(http.StatusOK, statusResp{
        Status:      "Login successful",
        StatusCode:  http.StatusOK,
        UserID:      res.UserID,
        AccessToken: res.AccessToken,
    })
}
