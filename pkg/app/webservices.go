package app

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"rotenc/pkg/encoder"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData returns the last detected detent.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		return ctx.JSON(app.Position())
	}
}

// HandlePosition returns the current position in the unit given by the path, e.g. /position/degrees.
func (app *App) HandlePosition() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request position")

		var u encoder.Unit
		switch unit := ctx.Params("unit"); unit {
		case "detents":
			u = encoder.Detents
		case "degrees":
			u = encoder.Degrees
		default:
			return fiber.NewError(http.StatusBadRequest, "unknown unit "+unit)
		}

		return ctx.JSON(fiber.Map{
			"unit":  u.String(),
			"value": app.PositionIn(u),
		})
	}
}
