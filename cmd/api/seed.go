package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
)

// seedEmployees provisions the employees listed in a JSON array file.
func seedEmployees(ctx context.Context, svc employee.EmployeeService, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var requests []employee.ProvisionEmployeeRequest
	if err := json.Unmarshal(raw, &requests); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for _, req := range requests {
		created, err := svc.Provision(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", req.EmployeeCode, err)
		}
		slog.Info("Seeded employee", "employee_id", created.ID, "employee_code", created.EmployeeCode, "email", created.Email)
	}
	return nil
}
