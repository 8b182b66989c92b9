// Package console runs the interactive login and numbered menu over a member
// store.
//
// A Shell reads one line per prompt and writes every result and diagnostic to
// its output. Store errors never end the loop: they are printed and the menu
// is shown again. The loop ends on choice 0, "enter", or end of input.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/members/internal/config"
	"github.com/roach88/members/internal/credential"
	"github.com/roach88/members/internal/store"
)

// Shell is the interactive front end of the member book.
type Shell struct {
	in     *bufio.Reader
	out    io.Writer
	store  store.Store
	cfg    config.Config
	logger *slog.Logger
}

// New creates a Shell. A nil logger discards output.
func New(in io.Reader, out io.Writer, st store.Store, cfg config.Config, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Shell{
		in:     bufio.NewReader(in),
		out:    out,
		store:  st,
		cfg:    cfg,
		logger: logger,
	}
}

// Login prompts once for account and password and checks them against creds.
// There is no retry.
func (s *Shell) Login(creds []credential.Credential) bool {
	account, ok := s.prompt(promptAccount)
	if !ok {
		fmt.Fprint(s.out, "\n"+msgLoginFailed)
		return false
	}
	password, _ := s.prompt(promptPassword)

	if !credential.Check(account, password, creds, s.cfg.PasswordHash) {
		s.logger.Warn("login rejected", "account", account, "mode", s.cfg.PasswordHash)
		fmt.Fprint(s.out, msgLoginFailed)
		return false
	}

	s.logger.Info("login accepted", "account", account)
	fmt.Fprint(s.out, msgLoginOK)
	return true
}

// Report prints the diagnostic for err and logs it.
func (s *Shell) Report(err error) {
	if store.IsNotFound(err) {
		s.logger.Debug("lookup missed", "error", err)
	} else {
		s.logger.Error("operation failed", "error", err)
	}
	fmt.Fprint(s.out, describe(err))
}

// Run prepares the store and loops over the menu until the user exits or
// input ends. It returns ctx.Err() if ctx is cancelled; a choice read after
// cancellation is not run.
func (s *Shell) Run(ctx context.Context) error {
	s.prepare(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		writeMenu(s.out)
		choice, ok := s.prompt(promptChoice)
		if !ok {
			s.logger.Debug("input closed")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if exit := s.dispatch(ctx, strings.TrimSpace(choice)); exit {
			s.logger.Info("session ended")
			return nil
		}
	}
}

// prepare ensures the table exists and, when configured, clears it.
// Otherwise it logs how many records were kept.
func (s *Shell) prepare(ctx context.Context) {
	if err := s.store.EnsureTable(ctx); err != nil {
		s.Report(err)
		return
	}
	if !s.cfg.ResetOnStart {
		kept, err := s.store.Count(ctx)
		if err != nil {
			s.Report(err)
			return
		}
		s.logger.Info("store kept", "records", kept)
		return
	}

	cleared, err := s.store.DeleteAll(ctx)
	if err != nil {
		s.Report(err)
		return
	}
	s.logger.Info("store reset", "cleared", cleared)
}

// dispatch runs one menu choice and reports whether the loop should end.
func (s *Shell) dispatch(ctx context.Context, choice string) bool {
	s.logger.Debug("menu choice", "choice", choice)

	switch {
	case choice == "0" || strings.EqualFold(choice, "enter"):
		return true
	case choice == "1":
		s.ensureTable(ctx)
	case choice == "2":
		s.importFile(ctx)
	case choice == "3":
		s.listAll(ctx)
	case choice == "4":
		return !s.insert(ctx)
	case choice == "5":
		return !s.update(ctx)
	case choice == "6":
		return !s.search(ctx)
	case choice == "7":
		s.deleteAll(ctx)
	default:
		fmt.Fprint(s.out, msgInvalidChoice)
	}
	return false
}

func (s *Shell) ensureTable(ctx context.Context) {
	existed, err := s.store.TableExists(ctx)
	if err != nil {
		s.Report(err)
		return
	}
	if err := s.store.EnsureTable(ctx); err != nil {
		s.Report(err)
		return
	}
	s.logger.Info("table ensured", "existed", existed)
	fmt.Fprint(s.out, msgTableCreated)
}

func (s *Shell) importFile(ctx context.Context) {
	total, err := s.store.Import(ctx, s.cfg.ImportFile)
	if err != nil {
		s.Report(err)
		return
	}
	fmt.Fprintf(s.out, msgAffected, total)
}

func (s *Shell) listAll(ctx context.Context) {
	records, err := s.store.List(ctx)
	if err != nil {
		s.Report(err)
		return
	}
	if len(records) == 0 {
		fmt.Fprint(s.out, msgNoData)
		return
	}

	fmt.Fprintln(s.out)
	writeTable(s.out, records)
	fmt.Fprintln(s.out)
}

// insert, update and search return false when input ends mid-prompt.

func (s *Shell) insert(ctx context.Context) bool {
	fields, ok := s.promptAll(promptName, promptSex, promptPhone)
	if !ok {
		return false
	}

	affected, err := s.store.Insert(ctx, fields[0], fields[1], fields[2])
	if err != nil {
		s.Report(err)
		return true
	}
	fmt.Fprintf(s.out, msgInserted, affected)
	return true
}

func (s *Shell) update(ctx context.Context) bool {
	name, ok := s.prompt(promptNameToFix)
	if !ok {
		return false
	}
	if name == "" {
		fmt.Fprint(s.out, msgNameRequired)
		return true
	}

	fields, ok := s.promptAll(promptNewSex, promptNewPhone)
	if !ok {
		return false
	}

	before, after, err := s.store.UpdateByName(ctx, name, fields[0], fields[1])
	if err != nil {
		s.Report(err)
		return true
	}
	fmt.Fprintf(s.out, msgBefore, before.Name, before.Sex, before.Phone)
	fmt.Fprintf(s.out, msgAfter, after.Name, after.Sex, after.Phone)
	return true
}

func (s *Shell) search(ctx context.Context) bool {
	phone, ok := s.prompt(promptSearch)
	if !ok {
		return false
	}

	records, err := s.store.SearchByPhone(ctx, phone)
	if err != nil {
		s.Report(err)
		return true
	}
	if len(records) == 0 {
		fmt.Fprintf(s.out, msgPhoneNotFound, phone)
		return true
	}

	writeTable(s.out, records)
	fmt.Fprintln(s.out)
	return true
}

func (s *Shell) deleteAll(ctx context.Context) {
	removed, err := s.store.DeleteAll(ctx)
	if err == nil && removed < 0 {
		err = &store.Error{Kind: store.KindStore, Op: "delete all", Err: errors.New("store reported failure")}
	}
	if err != nil {
		s.Report(err)
		return
	}
	fmt.Fprintf(s.out, msgAffected, removed)
}

// prompt writes text and reads one line without its line ending.
// It returns false only when input has ended with nothing left to read.
func (s *Shell) prompt(text string) (string, bool) {
	fmt.Fprint(s.out, text)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (s *Shell) promptAll(texts ...string) ([]string, bool) {
	values := make([]string, 0, len(texts))
	for _, text := range texts {
		v, ok := s.prompt(text)
		if !ok {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}
