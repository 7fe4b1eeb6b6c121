package model

// Device types and statuses as the asset inventory reports them.
const (
	DeviceTypeLaptop     = "laptop"
	DeviceTypeDesktop    = "desktop"
	DeviceTypeMonitor    = "monitor"
	DeviceTypePhone      = "phone"
	DeviceTypePeripheral = "peripheral"

	DeviceStatusInUse     = "in_use"
	DeviceStatusInStorage = "in_storage"
	DeviceStatusInRepair  = "in_repair"
	DeviceStatusRetired   = "retired"
)

// Device is an asset row as returned by the IT backend. The inventory is
// read-only from the dashboard, so there is no create request for it.
type Device struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DeviceType  string `json:"deviceType"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	PurchasedAt string `json:"purchasedAt"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// DeviceView is the rendered asset row.
type DeviceView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DeviceType  string `json:"deviceType"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	PurchasedAt string `json:"purchasedAt"`
}

// NewDeviceView maps a backend row into its display shape. Unassigned
// devices render a dash in the owner column.
func NewDeviceView(d Device) DeviceView {
	assigned := d.AssignedTo
	if assigned == "" {
		assigned = "-"
	}
	return DeviceView{
		ID:          d.ID,
		Name:        d.Name,
		DeviceType:  TitleCase(d.DeviceType),
		AssignedTo:  assigned,
		Status:      TitleCase(d.Status),
		PurchasedAt: DateOnly(d.PurchasedAt),
	}
}
