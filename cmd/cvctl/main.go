package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruit-cv/pkg/uploader"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var endpoint string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cvctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cvctl",
		Short:        "CV upload CLI",
		Long:         `cvctl drives the CV upload pipeline from the command line: it validates a file against the acceptance policy, uploads it to the save endpoint, and reports the outcome the way the web client would.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&endpoint, "endpoint", "http://localhost:8000/api/v1/cvs/save", "CV save endpoint")
	cmd.AddCommand(
		newUploadCmd(),
		newCheckCmd(),
	)
	return cmd
}

func newUploadCmd() *cobra.Command {
	var retries int
	var timeout time.Duration
	var maxSize int64
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Validate and upload a CV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, r, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			constraints := uploader.DefaultConstraints()
			constraints.Timeout = timeout
			if maxSize > 0 {
				constraints.MaxSize = maxSize
			}

			up := uploader.New(endpoint, uploader.WithConstraints(constraints))
			if err := up.Submit(ctx, f, r); err != nil {
				return err
			}
			for i := 0; i < retries && up.Snapshot().Status == uploader.StatusError; i++ {
				snap := up.Snapshot()
				if !snap.Error.CanRetry {
					break
				}
				fmt.Fprintf(os.Stderr, "retrying (%d/%d): %s\n", i+1, retries, snap.Error.Message)
				if err := up.Retry(ctx); err != nil {
					return err
				}
			}
			return report(up.Snapshot())
		},
	}
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry failed uploads up to N times")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-attempt timeout")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "Override the size limit in bytes")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a CV locally without uploading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, r, err := openFile(args[0])
			if err != nil {
				return err
			}
			r.Close()

			if code := uploader.Validate(f, uploader.DefaultConstraints()); code != nil {
				desc := uploader.Describe(*code)
				return fmt.Errorf("%s: %s", desc.Title, desc.Message)
			}
			fmt.Printf("%s looks fine (%s, %d bytes)\n", f.Name, f.ContentType, f.Size)
			return nil
		},
	}
	return cmd
}

// openFile stats and sniffs the file so validation sees the same content type
// the server would detect, not just the extension.
func openFile(path string) (uploader.FileInfo, *os.File, error) {
	st, err := os.Stat(path)
	if err != nil {
		return uploader.FileInfo{}, nil, err
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return uploader.FileInfo{}, nil, err
	}
	r, err := os.Open(path)
	if err != nil {
		return uploader.FileInfo{}, nil, err
	}
	return uploader.FileInfo{
		Name:        st.Name(),
		Size:        st.Size(),
		ContentType: mtype.String(),
	}, r, nil
}

func report(snap uploader.Snapshot) error {
	switch snap.Status {
	case uploader.StatusSuccess:
		fmt.Printf("uploaded %s (id %s)\n", snap.Result.Filename, snap.Result.ID)
		return nil
	case uploader.StatusError:
		return fmt.Errorf("%s: %s", snap.Error.Title, snap.Error.Message)
	default:
		return fmt.Errorf("upload did not settle (status %s)", snap.Status)
	}
}
