package models

import "time"

// DashboardStats is the payload of the dashboard summary cards
type DashboardStats struct {
	TotalBookings     int       `json:"totalBookings"`
	ConfirmedBookings int       `json:"confirmedBookings"`
	CompletedBookings int       `json:"completedBookings"`
	CancelledBookings int       `json:"cancelledBookings"`
	NoShowBookings    int       `json:"noShowBookings"`
	BookingsThisWeek  int       `json:"bookingsThisWeek"`
	BookingsThisMonth int       `json:"bookingsThisMonth"`
	BookingsLastMonth int       `json:"bookingsLastMonth"`
	BookingsChange    int       `json:"bookingsChange"`
	ActiveClients     int       `json:"activeClients"`
	TotalClients      int       `json:"totalClients"`
	HoursThisWeek     float64   `json:"hoursThisWeek"`
	CompletionRate    int       `json:"completionRate"`
	NoShowRate        int       `json:"noShowRate"`
	Revenue           float64   `json:"revenue"`
	GeneratedAt       time.Time `json:"generatedAt"`
}
