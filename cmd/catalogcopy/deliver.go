package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/youruser/catalogapp/internal/clipboard"
	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/util"
)

const emptyCompositeMessage = "Nothing to copy. Add a photo and/or text items first."

// deliver hands a rendered PNG to --out or the delivery chain and reports
// what happened.
func (a *app) deliver(cmd *cobra.Command, out *imagepkg.Rendered, filename string) error {
	w := cmd.OutOrStdout()
	if a.out != "" {
		if err := util.WriteFileAtomic(a.out, out.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s (%dx%d)\n", a.out, out.Width, out.Height)
		printNote(w, clipboard.Outcome{Method: clipboard.MethodDownload}, out)
		return nil
	}

	env := clipboard.EnvFromUserAgent(a.userAgent, true)
	outcome := a.chain().Deliver(cmd.Context(), env, out, filename)
	if !outcome.OK() {
		return fmt.Errorf("could not deliver image: %w", outcome.Err)
	}
	switch outcome.Method {
	case clipboard.MethodDownload:
		fmt.Fprintf(w, "Clipboard unavailable; saved %s\n", outcome.Location)
	default:
		fmt.Fprintf(w, "Copied image to clipboard (%dx%d)\n", out.Width, out.Height)
	}
	printNote(w, outcome, out)
	return nil
}

func printNote(w io.Writer, o clipboard.Outcome, out *imagepkg.Rendered) {
	if note := clipboard.Note(o, out.ImagesLoaded, out.ImagesRequested); note != "" {
		fmt.Fprintln(w, note)
	}
}

// renderErr turns builder errors into the messages users see.
func renderErr(err error) error {
	if errors.Is(err, imagepkg.ErrEmptyComposite) {
		return errors.New(emptyCompositeMessage)
	}
	return err
}
