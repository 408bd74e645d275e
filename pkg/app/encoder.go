package app

import (
	"time"

	"github.com/womat/debug"

	"rotenc/pkg/encoder"
)

// Position is the state reported after each detected detent.
type Position struct {
	TimeStamp time.Time // time of the last detected detent
	Direction string    // direction of the last detent (positive|negative|neutral)
	Detents   float64   // signed count of detents since start
	Degrees   float64   // Detents converted to degrees
	Speed     int       // detents in the same direction within the velocity window
	FastSpin  bool      // Speed reached the configured fast spin threshold
}

// runEncoder polls the encoder in an endless loop until app.quit is closed.
// The decoder requires a fixed minimum poll rate, so nothing else is done in this loop
// than polling and forwarding detected detents.
func (app *App) runEncoder() {
	defer close(app.done)

	ticker := time.NewTicker(app.config.PollInterval)
	defer ticker.Stop()

	debug.InfoLog.Printf("polling encoder every %v", app.config.PollInterval)

	for {
		select {
		case <-app.quit:
			return
		case <-ticker.C:
			if p, ok := app.poll(); ok {
				app.sendMQTT(p)
			}
		}
	}
}

// poll polls the decoder once. It returns the new position if a detent was detected.
func (app *App) poll() (Position, bool) {
	app.mu.Lock()
	defer app.mu.Unlock()

	d := app.detector.Poll()
	if d == encoder.Neutral {
		return Position{}, false
	}

	speed := app.velocity.Add(int(d))
	app.position = Position{
		TimeStamp: time.Now(),
		Direction: d.String(),
		Detents:   app.detector.GetPosition(encoder.Detents),
		Degrees:   app.detector.GetPosition(encoder.Degrees),
		Speed:     speed,
		FastSpin:  app.config.Velocity.FastSpin > 0 && speed >= app.config.Velocity.FastSpin,
	}

	debug.DebugLog.Printf("detent %v: %v detents, %.1f°, speed %v", d, app.position.Detents, app.position.Degrees, speed)
	return app.position, true
}

// Position returns the last detected position.
func (app *App) Position() Position {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.position
}

// PositionIn returns the current position in the requested unit.
func (app *App) PositionIn(u encoder.Unit) float64 {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.detector.GetPosition(u)
}

// sendMQTT queues the position for the mqtt broker.
func (app *App) sendMQTT(p Position) {
	if !app.mqtt.Enabled() {
		return
	}

	debug.TraceLog.Printf("prepare mqtt message %v %v", app.config.MQTT.Topic, p)
	if err := app.mqtt.Send(app.config.MQTT.Topic, p); err != nil {
		debug.ErrorLog.Printf("sendMQTT: %v", err)
	}
}
