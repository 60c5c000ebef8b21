package ports

// Server is a long running inbound surface such as the HTTP API or the mail intake
type Server interface {
	// Name identifies the server in logs
	Name() string

	// Start begins serving in the background
	Start() error

	// Stop shuts the server down
	Stop() error
}
