package maintenance

import "context"

type Repository interface {
	// MachineName returns "" when the machine does not exist.
	MachineName(ctx context.Context, machineID int) (string, error)
	ListMachinesNeedingService(ctx context.Context, gymID *int) ([]MachineServiceStatus, error)
	ListMachineStatuses(ctx context.Context, gymID *int) ([]MachineServiceStatus, error)
	ServiceMachine(ctx context.Context, machineID int, notes string, ticketID *int) (*ServiceRecord, int64, error)
	UpsertServiceInterval(ctx context.Context, machineID int, hours float64) (*ServiceRecord, error)
	ListTickets(ctx context.Context, filter TicketFilter) ([]Ticket, error)
}
