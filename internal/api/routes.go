package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/stats", s.statsHandler.GetStats)

	s.router.GET("/stream.mjpg", s.streamHandler.MJPEG)
	s.router.GET("/frame.jpg", s.streamHandler.LatestFrame)
}
