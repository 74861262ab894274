package services

import (
	"cmp"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"secret-santa/distribution"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/errors"
	"secret-santa/repositories"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type IAdminService interface {
	IsAdmin(id domain.ParticipantID) bool
	Execute(from domain.ParticipantID, cmd event.Command) ([]domain.Effect, error)
}

// AdminService runs the commands reserved to the allow-list.
type AdminService struct {
	participants repositories.IParticipantRepository
	cities       domain.CityGroups
	admins       map[domain.ParticipantID]struct{}
	running      sync.Mutex
	log          *slog.Logger
}

func NewAdminService(
	participants repositories.IParticipantRepository,
	cities domain.CityGroups,
	admins []domain.ParticipantID,
	log *slog.Logger) *AdminService {
	return &AdminService{
		participants: participants,
		cities:       cities,
		admins:       lo.SliceToMap(admins, func(id domain.ParticipantID) (domain.ParticipantID, struct{}) { return id, struct{}{} }),
		log:          log,
	}
}

func (s *AdminService) IsAdmin(id domain.ParticipantID) bool {
	_, ok := s.admins[id]
	return ok
}

// Execute runs an admin command. Anyone outside the allow-list gets nothing.
func (s *AdminService) Execute(from domain.ParticipantID, cmd event.Command) ([]domain.Effect, error) {
	if !s.IsAdmin(from) {
		s.log.Warn("Admin command from non-admin ignored", "participant", from, "command", cmd)
		return nil, nil
	}
	switch cmd {
	case event.CommandList:
		return s.List(from)
	case event.CommandDistribute:
		return s.Distribute(from)
	case event.CommandNotify:
		return s.Notify(from)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownCommand, cmd)
	}
}

// List replies with a table of every participant.
func (s *AdminService) List(from domain.ParticipantID) ([]domain.Effect, error) {
	participants, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	WriteParticipantTable(&sb, participants)
	return []domain.Effect{
		domain.NewEffect(from, domain.CopyParticipantTable).
			With("count", strconv.Itoa(len(participants))).
			With("table", sb.String()),
	}, nil
}

// Distribute pairs every registered participant across the two city groups
// and writes the result back in one transaction. Pairs from a previous draw
// are discarded.
func (s *AdminService) Distribute(from domain.ParticipantID) ([]domain.Effect, error) {
	if !s.running.TryLock() {
		return s.rejected(from, errors.ErrDistributionInProgress), nil
	}
	defer s.running.Unlock()

	participants, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	groupA, groupB := s.partition(participants)

	distributed, err := distribution.Distribute(groupA, groupB)
	if err != nil {
		if isPrecondition(err) {
			s.log.Warn("Distribution rejected", "admin", from, "groupA", len(groupA), "groupB", len(groupB), "error", err)
			return s.rejected(from, err), nil
		}
		return nil, err
	}
	if err = s.participants.SaveParticipants(distributed); err != nil {
		return nil, fmt.Errorf("distribution write-back: %w", err)
	}

	s.log.Info("Distribution done", "admin", from, "participants", len(distributed))
	effects := []domain.Effect{
		domain.NewEffect(from, domain.CopyDistributionDone).With("count", strconv.Itoa(len(distributed))),
	}
	for _, p := range distributed {
		effects = append(effects, domain.NewEffect(p.ID, domain.CopyDistributionAnnounce))
	}
	return effects, nil
}

// Notify reveals to every giver the name and wish of their recipient and
// opens the relay menu for them.
func (s *AdminService) Notify(from domain.ParticipantID) ([]domain.Effect, error) {
	if !s.running.TryLock() {
		return s.rejected(from, errors.ErrDistributionInProgress), nil
	}
	defer s.running.Unlock()

	participants, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(participants, func(p domain.Participant) domain.ParticipantID { return p.ID })

	var (
		notified []domain.Participant
		effects  []domain.Effect
	)
	for _, p := range participants {
		if p.Recipient == nil {
			continue
		}
		child, ok := byID[*p.Recipient]
		if !ok {
			s.log.Error("Recipient record missing", "giver", p.ID, "recipient", *p.Recipient)
			continue
		}
		p.State = domain.StateDistributed
		notified = append(notified, p)
		effects = append(effects, domain.NewEffect(p.ID, domain.CopyRecipientRevealed).
			With("name", child.DisplayName()).
			With("wish", child.Wish).
			WithKeyboard(domain.KeyboardChatMenu))
	}
	if len(notified) > 0 {
		if err = s.participants.SaveParticipants(notified); err != nil {
			return nil, fmt.Errorf("notify write-back: %w", err)
		}
	}

	s.log.Info("Participants notified", "admin", from, "count", len(notified))
	return append(effects,
		domain.NewEffect(from, domain.CopyNotifyDone).With("count", strconv.Itoa(len(notified)))), nil
}

func (s *AdminService) snapshot() ([]domain.Participant, error) {
	participants, err := s.participants.ListParticipants()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(participants, func(a, b domain.Participant) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return participants, nil
}

// partition keeps participants who chose a city and drops previous pairs.
func (s *AdminService) partition(participants []domain.Participant) ([]domain.Participant, []domain.Participant) {
	reset := func(p domain.Participant) domain.Participant {
		p.Recipient, p.Giver = nil, nil
		return p
	}
	groupA := lo.Map(lo.Filter(participants, func(p domain.Participant, _ int) bool { return p.City == s.cities.A }),
		func(p domain.Participant, _ int) domain.Participant { return reset(p) })
	groupB := lo.Map(lo.Filter(participants, func(p domain.Participant, _ int) bool { return p.City == s.cities.B }),
		func(p domain.Participant, _ int) domain.Participant { return reset(p) })
	return groupA, groupB
}

func (s *AdminService) rejected(to domain.ParticipantID, reason error) []domain.Effect {
	return []domain.Effect{domain.NewEffect(to, domain.CopyDistributionRejected).With("reason", reason.Error())}
}

func isPrecondition(err error) bool {
	return stderrors.Is(err, errors.ErrEmptyGroups) ||
		stderrors.Is(err, errors.ErrUnequalGroups) ||
		stderrors.Is(err, errors.ErrSelfPairing) ||
		stderrors.Is(err, errors.ErrIncompleteDistribution)
}

// WriteParticipantTable renders participants as an aligned plain text table.
func WriteParticipantTable(w io.Writer, participants []domain.Participant) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Nickname", "Username", "City", "State", "Recipient", "Giver"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, p := range participants {
		table.Append([]string{
			p.ID.String(),
			p.Nickname,
			p.Username,
			string(p.City),
			p.State.String(),
			yesNo(p.Recipient != nil),
			yesNo(p.Giver != nil),
		})
	}
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
