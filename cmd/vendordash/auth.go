package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/vendor-dash/internal/cli"
	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a vendor",
		Long: `Log in to the backend and save the session cookie.

The password is prompted for when --password is not given.`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "vendor email")
	cmd.Flags().String("password", "", "vendor password (prompted when omitted)")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	prompter := cli.NewPrompter(os.Stdin, cmd.OutOrStdout())
	if email == "" {
		if email, err = prompter.Require(ctx, "Email"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompter.Require(ctx, "Password"); err != nil {
			return err
		}
	}

	sess, err := a.sessions.Login(ctx, email, password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Logged in as %s (%s)", sess.Vendor.Name, sess.Vendor.Email)))
	return err
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged out"))
			return err
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in vendor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			vendor, err := a.sessions.Status(cmd.Context())
			if errors.Is(err, common.ErrNotLoggedIn) {
				return common.NewUserError("You are not logged in", err)
			}
			if err != nil {
				return err
			}

			lines := []string{cli.BoldStyle.Render(vendor.Initial()) + "  " + vendor.Name, vendor.Email}
			for _, extra := range []string{vendor.VendorLocation, vendor.ContactNumber} {
				if extra != "" {
					lines = append(lines, extra)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Vendor", strings.Join(lines, "\n")))
			return err
		},
	}
}

func passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
	}

	sendOTP := &cobra.Command{
		Use:   "send-otp",
		Short: "Email a one-time password reset code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")

			msg, err := a.client.SendResetOTP(cmd.Context(), email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(orDefault(msg, "OTP sent to "+email)))
			return err
		},
	}
	sendOTP.Flags().String("email", "", "account email")
	_ = sendOTP.MarkFlagRequired("email")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using the emailed code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp()
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			otp, _ := cmd.Flags().GetString("otp")
			newPassword, _ := cmd.Flags().GetString("new-password")

			if newPassword == "" {
				prompter := cli.NewPrompter(os.Stdin, cmd.OutOrStdout())
				if newPassword, err = prompter.Require(ctx, "New password"); err != nil {
					return err
				}
			}

			msg, err := a.client.ResetPassword(ctx, email, otp, newPassword)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(orDefault(msg, "Password updated")))
			return err
		},
	}
	reset.Flags().String("email", "", "account email")
	reset.Flags().String("otp", "", "code from the reset email")
	reset.Flags().String("new-password", "", "new password (prompted when omitted)")
	_ = reset.MarkFlagRequired("email")
	_ = reset.MarkFlagRequired("otp")

	cmd.AddCommand(sendOTP, reset)
	return cmd
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
