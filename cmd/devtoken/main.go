// Command devtoken mints access tokens signed with JWT_SECRET_KEY for local
// testing of the API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethos-hrms/hrms-backend-go/internal/config"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/jwt"
	"github.com/spf13/pflag"
)

type output struct {
	Token     string `json:"access_token"`
	ExpiresAt int64  `json:"expires_at"`
	Type      string `json:"token_type"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	employeeID := flags.StringP("employee", "e", "", "employee id placed in the employee_id claim (required)")
	role := flags.StringP("role", "r", string(user.RoleEmployee), "one of employee, manager, hr, admin")
	email := flags.String("email", "", "email claim")
	status := flags.String("status", "active", "employment_status claim")
	twoFactor := flags.Bool("2fa-enabled", false, "mark two-factor as enabled")
	verified := flags.Bool("2fa-verified", false, "mark two-factor as verified")
	ttl := flags.Duration("ttl", 0, "token lifetime, defaults to JWT_ACCESS_EXPIRATION_TIME")
	asJSON := flags.Bool("json", false, "print a JSON object instead of the bare token")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *employeeID == "" {
		return fmt.Errorf("--employee is required")
	}
	parsedRole, err := user.ParseRole(*role)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	expiration := cfg.JWT.AccessExpiration
	if *ttl > 0 {
		expiration = ttl.String()
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, expiration, cfg.JWT.AcceptableSkew)
	token, expiresAt, err := svc.GenerateAccessToken(user.Principal{
		EmployeeID:        *employeeID,
		Email:             *email,
		Role:              parsedRole,
		EmploymentStatus:  *status,
		TwoFactorEnabled:  *twoFactor,
		TwoFactorVerified: *verified,
	})
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	if !*asJSON {
		_, err = fmt.Fprintln(out, token)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output{Token: token, ExpiresAt: expiresAt, Type: "Bearer"})
}
