package app

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// HandleHealth returns data about the health of myself.
// output example:
//  {"NumGoroutines":7,"NumCPU":4,"HeapAllocatedBytes":1332256,"HeapAllocatedMB":1,
//   "SysMemoryBytes":10290312,"SysMemoryMB":9,"Version":"1.0.02+20261014","ProgLang":"go1.16.15",
//   "Strategy":"quadrature","PollInterval":"1ms","GpioDriver":"gpiod"}
func (app *App) HandleHealth() fiber.Handler {
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request health")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		hab := m.Alloc
		smb := m.Sys

		healthData := struct {
			NumGoroutines      int
			NumCPU             int
			HeapAllocatedBytes uint64
			HeapAllocatedMB    uint64
			SysMemoryBytes     uint64
			SysMemoryMB        uint64
			Version            string
			ProgLang           string
			HostName           string
			Time               string
			Strategy           string
			PollInterval       string
			GpioDriver         string
		}{
			NumGoroutines:      runtime.NumGoroutine(),
			NumCPU:             runtime.NumCPU(),
			HeapAllocatedBytes: hab,
			HeapAllocatedMB:    bToMb(hab),
			SysMemoryBytes:     smb,
			SysMemoryMB:        bToMb(smb),
			ProgLang:           runtime.Version(),
			Version:            VERSION,
			HostName:           host,
			Time:               time.Now().Format(time.RFC3339),
			Strategy:           app.config.Encoder.Strategy,
			PollInterval:       app.config.PollInterval.String(),
			GpioDriver:         app.config.Gpio.Driver,
		}
		ctx.Status(http.StatusOK)
		return ctx.JSON(healthData)
	}
}
