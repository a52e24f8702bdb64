package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	JWTSecret string

	// Line listings
	GetCityLinesHandler      gin.HandlerFunc
	GetIntercityLinesHandler gin.HandlerFunc

	// Timetables
	GetTimetableHandler         gin.HandlerFunc
	GetStoredTimetableHandler   gin.HandlerFunc
	ListStoredTimetablesHandler gin.HandlerFunc

	// Admin
	RefreshTimetablesHandler gin.HandlerFunc
}

// NewHandlerBundle wires the timetable handler into a bundle.
func NewHandlerBundle(th *TimetableHandler, jwtSecret string) *HandlerBundle {
	return &HandlerBundle{
		JWTSecret:                   jwtSecret,
		GetCityLinesHandler:         th.GetCityLinesHandler,
		GetIntercityLinesHandler:    th.GetIntercityLinesHandler,
		GetTimetableHandler:         th.GetTimetableHandler,
		GetStoredTimetableHandler:   th.GetStoredTimetableHandler,
		ListStoredTimetablesHandler: th.ListStoredTimetablesHandler,
		RefreshTimetablesHandler:    th.RefreshTimetablesHandler,
	}
}
