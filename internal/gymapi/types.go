package gymapi

// MemberProfile is the member record returned by the gym CRM.
type MemberProfile struct {
	MemberID  string `json:"memberId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BranchID  string `json:"branchId"`
	Status    string `json:"status"`
}

// Membership is an active or historical membership held by a member.
type Membership struct {
	MembershipID string `json:"membershipId"`
	PlanID       string `json:"planId"`
	PlanName     string `json:"planName"`
	Status       string `json:"status"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
}

// ClassSession is a single scheduled class occurrence.
type ClassSession struct {
	ClassID    string `json:"classId"`
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
	BranchID   string `json:"branchId"`
	StartsAt   string `json:"startsAt"`
	EndsAt     string `json:"endsAt"`
	Capacity   int    `json:"capacity"`
}

// SeatCount reports availability for one class session.
type SeatCount struct {
	ClassID   string `json:"classId"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
}

// BookingRequest creates a seat reservation for a member.
type BookingRequest struct {
	ClassID  string `json:"classId"`
	MemberID string `json:"memberId"`
}

// Booking is a confirmed seat reservation.
type Booking struct {
	BookingID string `json:"bookingId"`
	ClassID   string `json:"classId"`
	MemberID  string `json:"memberId"`
	Status    string `json:"status"`
	BookedAt  string `json:"bookedAt"`
}

// ProspectRequest captures a lead for follow-up by sales staff.
type ProspectRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Interest string `json:"interest,omitempty"`
	BranchID string `json:"branchId,omitempty"`
}

// Prospect is the created lead record.
type Prospect struct {
	ProspectID string `json:"prospectId"`
	Name       string `json:"name"`
	CreatedAt  string `json:"createdAt"`
}

// Club is one physical gym location.
type Club struct {
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// MembershipPlan is a purchasable plan tier.
type MembershipPlan struct {
	PlanID       string  `json:"planId"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthlyPrice"`
	Description  string  `json:"description,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type scheduleResponse struct {
	Classes []ClassSession `json:"classes"`
}

type membershipsResponse struct {
	Memberships []Membership `json:"memberships"`
}

type clubsResponse struct {
	Clubs []Club `json:"clubs"`
}

type plansResponse struct {
	Plans []MembershipPlan `json:"plans"`
}
