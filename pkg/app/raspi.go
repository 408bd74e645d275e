package app

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"rotenc/pkg/port"
	"rotenc/pkg/raspberry"
)

// HandleEmuLevel sets the level of an emulated contact pin, e.g. PUT /emu/17/high.
// It's only useful with the emu gpio driver, e.g. for tests on a development machine.
func (app *App) HandleEmuLevel() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		emu, ok := app.gpio.(*raspberry.EmuGPIO)
		if !ok {
			return fiber.NewError(http.StatusConflict, "gpio driver isn't emulated")
		}

		pin, err := strconv.Atoi(ctx.Params("pin"))
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid pin "+ctx.Params("pin"))
		}

		var level port.StateType
		switch ctx.Params("level") {
		case "high", "1":
			level = port.High
		case "low", "0":
			level = port.Low
		default:
			return fiber.NewError(http.StatusBadRequest, "invalid level "+ctx.Params("level"))
		}

		debug.TraceLog.Printf("emulate pin %v %v", pin, level)
		if err = emu.SetLevel(pin, level); err != nil {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}

		return ctx.SendStatus(http.StatusNoContent)
	}
}
