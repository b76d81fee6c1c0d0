package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/user"
)

var errPlaylistRequired = errors.New("userId and playlist required")

type playlistApi struct {
	svc user.Service
}

func registerPlaylistAPI(g *echo.Group, svc user.Service) {
	api := playlistApi{svc: svc}

	pg := g.Group("/playlists")
	pg.POST("/save", api.save)
	pg.GET("/:userId", api.query)
	pg.PUT("/:userId/:playlistId", api.update)
	pg.DELETE("/:userId/:playlistId", api.destroy)

	// legacy
	yg := g.Group("/youtube")
	yg.POST("/save-playlist", api.save)
	yg.GET("/get-playlists/:userId", api.query)
	yg.PUT("/update-playlist/:userId/:playlistId", api.update)
	yg.DELETE("/delete-playlist/:userId/:playlistId", api.destroy)
}

// SavePlaylistRequest is the payload of a playlist save.
type SavePlaylistRequest struct {
	UserID   string            `json:"userId"`
	Playlist *user.NewPlaylist `json:"playlist"`
}

// Handlers

func (api *playlistApi) save(ctx echo.Context) error {
	var data SavePlaylistRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SavePlaylistRequest")
	}
	if core.CleanString(data.UserID) == "" || data.Playlist == nil {
		return core.NewValidationError(errPlaylistRequired)
	}

	pls, err := api.svc.SavePlaylist(ctx.Request().Context(), core.CleanString(data.UserID), *data.Playlist)
	if err != nil {
		return fail(err, "Failed to save playlist")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "playlists": pls})
}

func (api *playlistApi) query(ctx echo.Context) error {
	pls, err := api.svc.ListPlaylists(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return fail(err, "Failed to fetch playlists")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"playlists": pls})
}

func (api *playlistApi) update(ctx echo.Context) error {
	var data user.UpdatePlaylist
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePlaylist")
	}

	pls, err := api.svc.UpdatePlaylist(ctx.Request().Context(), ctx.Param("userId"), ctx.Param("playlistId"), data)
	if err != nil {
		return fail(err, "Failed to update playlist")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "playlists": pls})
}

func (api *playlistApi) destroy(ctx echo.Context) error {
	pls, err := api.svc.RemovePlaylist(ctx.Request().Context(), ctx.Param("userId"), ctx.Param("playlistId"))
	if err != nil {
		return fail(err, "Failed to delete playlist")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "playlists": pls})
}
