package dashboard

import "context"

type DashboardService interface {
	GetEmployeeDashboard(ctx context.Context, userID string) (*EmployeeDashboardResponse, error)
	GetManagerDashboard(ctx context.Context, managerID string) (*ManagerDashboardResponse, error)
}
