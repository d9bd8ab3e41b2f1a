package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/chriskke/teeko-booking-service/internal/repository"
)

// PackageHandler exposes the read-only SIM package catalog that
// bookings are made against.
type PackageHandler struct {
    Packages *repository.PackageRepo
}

// NewPackageHandler constructs a PackageHandler.
func NewPackageHandler(repo *repository.PackageRepo) *PackageHandler {
    if repo == nil {
        panic("nil repository passed to NewPackageHandler")
    }
    return &PackageHandler{Packages: repo}
}

// List handles GET /v1/packages and returns all bookable packages.
func (h *PackageHandler) List(c echo.Context) error {
    pkgs, err := h.Packages.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list packages failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"data": pkgs})
}

// Get handles GET /v1/packages/:id.
func (h *PackageHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
    }
    pkg, err := h.Packages.GetActive(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrPackageNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "package not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load package failed"})
    }
    return c.JSON(http.StatusOK, pkg)
}
