package app

import (
	"net/url"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"rotenc/pkg/app/config"
	"rotenc/pkg/debounce"
	"rotenc/pkg/encoder"
	"rotenc/pkg/mqtt"
	"rotenc/pkg/raspberry"
	"rotenc/pkg/velocity"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// gpio is the gpio backend
	gpio raspberry.GPIO
	// pins are the requested contact pins of the encoder
	pins *raspberry.Bank

	// mu serializes detector and position, Poll isn't safe for concurrent use
	mu sync.Mutex
	// detector decodes the encoder contacts
	detector encoder.Detector
	// position is the last detected detent
	position Position
	// velocity counts recent detents to detect fast spinning
	velocity *velocity.Tracker

	// quit signals the encoder loop to stop, done is closed when it has stopped
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// New checks the Web server URL and initialize the main app structure
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	return &App{
		config:    config,
		urlParsed: u,

		web:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		mqtt:     mqtt.New(),
		velocity: velocity.New(config.Velocity.Window),

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	app.running = true
	go app.mqtt.Service()
	go app.runWebServer()
	go app.runEncoder()

	return nil
}

// init initializes the application.
func (app *App) init() (err error) {
	if err = app.initEncoder(); err != nil {
		return err
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection, app.config.MQTT.ClientID); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	// initDefaultRoutes should be always called last because it may access things like app.detector
	// which must be initialized before in initEncoder()
	app.initDefaultRoutes()

	return nil
}

// initEncoder opens the gpio backend, requests the contact pins and creates the decoder.
func (app *App) initEncoder() (err error) {
	c := app.config

	if app.gpio, err = raspberry.Open(c.Gpio.Driver, c.Gpio.Chip); err != nil {
		debug.ErrorLog.Printf("can't open gpio: %v", err)
		return err
	}

	if app.pins, err = raspberry.NewBank(app.gpio, c.Encoder.Pull, c.Encoder.PinA, c.Encoder.PinB); err != nil {
		debug.ErrorLog.Printf("can't open pins: %v", err)
		return err
	}

	if app.detector, err = encoder.New(c.Encoder.Strategy, c.EncoderParams(), app.pins, debounce.SystemClock{}); err != nil {
		debug.ErrorLog.Printf("can't create encoder: %v", err)
		return err
	}

	debug.InfoLog.Printf("encoder pin a %v, pin b %v, strategy %v, %v detents per %v°",
		c.Encoder.PinA, c.Encoder.PinB, c.Encoder.Strategy, c.Encoder.Detents, c.Encoder.MaxAngle)
	return nil
}

// Close stops the encoder loop and releases all resources.
// Close must be called from the goroutine that called Run.
func (app *App) Close() error {
	if app.running {
		app.running = false
		close(app.quit)
		<-app.done
		app.mqtt.Close()
	}

	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}
	if app.web != nil {
		_ = app.web.Shutdown()
	}
	if app.pins != nil {
		_ = app.pins.Close()
	}
	if app.gpio != nil {
		_ = app.gpio.Close()
	}
	return nil
}
