package server

// Server groups the entity servers behind a single router.
type Server struct {
	ScanServer
}

func NewServer(
	scanServer ScanServer,
) Server {
	return Server{
		ScanServer: scanServer,
	}
}
