package dto

type DashboardStatsResponse struct {
	TotalRooms       int     `json:"total_rooms"`
	AvailableRooms   int     `json:"available_rooms"`
	OccupiedRooms    int     `json:"occupied_rooms"`
	CleaningRooms    int     `json:"cleaning_rooms"`
	MaintenanceRooms int     `json:"maintenance_rooms"`
	OccupancyRate    int     `json:"occupancy_rate"`
	GuestsToday      int     `json:"guests_today"`
	TodayCollection  float64 `json:"today_collection"`
	WeekendRush      bool    `json:"weekend_rush"`
}

type DepartureItem struct {
	BookingID        string  `json:"booking_id"`
	RoomNumber       string  `json:"room_number"`
	RoomType         string  `json:"room_type"`
	ExpectedCheckout string  `json:"expected_checkout"`
	TotalAmount      float64 `json:"total_amount"`
	BalanceDue       float64 `json:"balance_due"`
}

type DeparturesResponse struct {
	Overdue       []DepartureItem `json:"overdue"`
	UpcomingToday []DepartureItem `json:"upcoming_today"`
}

type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type FloorRevenue struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

type RevenueReportResponse struct {
	Month         string             `json:"month"`
	TotalRevenue  float64            `json:"total_revenue"`
	BaseRevenue   float64            `json:"base_revenue"`
	ACRevenue     float64            `json:"ac_revenue"`
	GeyserRevenue float64            `json:"geyser_revenue"`
	Daily         []DailyRevenue     `json:"daily"`
	ByRoomType    map[string]float64 `json:"by_room_type"`
	ByFloor       []FloorRevenue     `json:"by_floor"`
	ACBookings    int                `json:"ac_bookings"`
	NonACBookings int                `json:"non_ac_bookings"`
}
