package enums

// Availability is the gate decision shown to the shopper. A denied or
// unresolved location is not the same as a resolved location outside the
// service area: the two route to different recovery flows.
type Availability string

const (
	AvailabilityAvailable        Availability = "available"
	AvailabilityOutOfArea        Availability = "out_of_area"
	AvailabilityPermissionNeeded Availability = "permission_needed"
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	return string(a)
}
