package copytext

import (
	"secret-santa/domain"
	"secret-santa/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var cities = domain.CityGroups{A: "Moscow", B: "Izhevsk"}

// Every copy key used by the core must exist in the embedded catalogue.
var usedCopies = []domain.Copy{
	domain.CopyWelcome, domain.CopyAskName, domain.CopyRepeatRegistration, domain.CopyHelp,
	domain.CopyPleaseSendText, domain.CopyAskCity, domain.CopyChooseCity,
	domain.CopyKeepSecret, domain.CopyWishChanged, domain.CopyChildHistoryEmpty,
	domain.CopySantaHistoryEmpty, domain.CopyChildChatOpened, domain.CopySantaChatOpened,
	domain.CopyChatClosed, domain.CopyDistributionAnnounce,
}

func TestDefault_Covers_Argument_Free_Copies(t *testing.T) {
	req := require.New(t)
	catalog, err := Default(cities)
	req.NoError(err)

	for _, c := range usedCopies {
		d, err := catalog.Render(domain.NewEffect(1, c))
		req.NoError(err, "copy %s", c)
		req.NotEmpty(d.Text, "copy %s", c)
	}
}

func TestRender_With_Arguments(t *testing.T) {
	req := require.New(t)
	catalog, err := Default(cities)
	req.NoError(err)

	d, err := catalog.Render(domain.NewEffect(7, domain.CopyFromSanta).With("text", "hello"))
	req.NoError(err)
	req.Equal(domain.ParticipantID(7), d.To)
	req.Equal("New message from your Santa:\nhello", d.Text)

	_, err = catalog.Render(domain.NewEffect(7, domain.CopyFromSanta))
	req.Error(err)
}

func TestRender_Thread_History_For_Each_Side(t *testing.T) {
	req := require.New(t)
	catalog, err := Default(cities)
	req.NoError(err)
	history := "$santa: Do you like tea?\n$child: Yes"

	d, err := catalog.Render(domain.NewEffect(1, domain.CopyChildHistory).With("history", history))
	req.NoError(err)
	req.Equal("You: Do you like tea?\nYour giftee: Yes", d.Text)

	d, err = catalog.Render(domain.NewEffect(2, domain.CopySantaHistory).With("history", history))
	req.NoError(err)
	req.Equal("Santa: Do you like tea?\nYou: Yes", d.Text)
}

func TestRender_Keyboards(t *testing.T) {
	req := require.New(t)
	catalog, err := Default(cities)
	req.NoError(err)

	d, err := catalog.Render(domain.NewEffect(1, domain.CopyAskCity).WithKeyboard(domain.KeyboardCities))
	req.NoError(err)
	req.Equal([][]domain.Button{
		{{Label: "Moscow", Signal: "select_city", Value: "Moscow"}},
		{{Label: "Izhevsk", Signal: "select_city", Value: "Izhevsk"}},
	}, d.Buttons)

	d, err = catalog.Render(domain.NewEffect(1, domain.CopyChatClosed).WithKeyboard(domain.KeyboardChatMenu))
	req.NoError(err)
	req.Equal([]string{"open_child_chat", "open_santa_chat"},
		lo.FlatMap(d.Buttons, func(row []domain.Button, _ int) []string {
			return lo.Map(row, func(b domain.Button, _ int) string { return b.Signal })
		}))

	d, err = catalog.Render(domain.NewEffect(1, domain.CopyHelp))
	req.NoError(err)
	req.Nil(d.Buttons)
}

func TestRender_Unknown_Copy(t *testing.T) {
	req := require.New(t)
	catalog, err := Load([]byte("messages:\n  hello: hi\n"), cities)
	req.NoError(err)

	_, err = catalog.Render(domain.NewEffect(1, domain.CopyWelcome))
	req.ErrorIs(err, errors.ErrUnknownCopy)
}

func TestLoad_Rejects_Unknown_Signal(t *testing.T) {
	req := require.New(t)
	_, err := Load([]byte("keyboards:\n  waiting:\n    - - label: x\n        signal: dance\n"), cities)
	req.Error(err)
}

func TestRenderAll_Keeps_Order(t *testing.T) {
	req := require.New(t)
	catalog, err := Default(cities)
	req.NoError(err)

	deliveries, err := catalog.RenderAll([]domain.Effect{
		domain.NewEffect(1, domain.CopyWelcome),
		domain.NewEffect(1, domain.CopyAskName),
	})
	req.NoError(err)
	req.Len(deliveries, 2)
	req.Equal("Now, little one, introduce yourself and tell me your name.", deliveries[1].Text)
}
