package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/infra/integration/cep"
	"github.com/xavierca1/ligue-cep/internal/infra/logging"
	"github.com/xavierca1/ligue-cep/internal/infra/stats"
)

// MockAddressGateway
type MockAddressGateway struct {
	mock.Mock
}

func (m *MockAddressGateway) Providers() []cep.Provider {
	return cep.DefaultProviders()
}

func (m *MockAddressGateway) Consult(ctx context.Context, p cep.Provider, zipCode string) *entity.Address {
	args := m.Called(ctx, p.Name, zipCode)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entity.Address)
}

// MockStatsRecorder
type MockStatsRecorder struct {
	mock.Mock
}

func (m *MockStatsRecorder) Record(ctx context.Context, ev stats.Event) error {
	args := m.Called(ctx, ev.Provider, ev.Won)
	return args.Error(0)
}

// fakeGateway responde cada provedor depois de um atraso configurado.
type fakeGateway struct {
	delays    map[string]time.Duration
	responses map[string]*entity.Address

	mu       sync.Mutex
	started  []string
	finished []string
}

func (g *fakeGateway) Providers() []cep.Provider {
	return cep.DefaultProviders()
}

func (g *fakeGateway) Consult(ctx context.Context, p cep.Provider, zipCode string) *entity.Address {
	g.mu.Lock()
	g.started = append(g.started, p.Name)
	g.mu.Unlock()

	select {
	case <-time.After(g.delays[p.Name]):
	case <-ctx.Done():
		return nil
	}

	g.mu.Lock()
	g.finished = append(g.finished, p.Name)
	g.mu.Unlock()
	return g.responses[p.Name]
}

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, message)
}

func addressFrom(provider string) *entity.Address {
	state, city := "SP", "São Paulo"
	return &entity.Address{
		State:        &state,
		City:         &city,
		Street:       "Praça da Sé",
		Neighborhood: provider,
		ZipCode:      "01001000",
	}
}

func TestVerify(t *testing.T) {
	logger := &recordingLogger{}
	uc := NewSearchAddressUseCase(new(MockAddressGateway), nil, logger)

	assert.True(t, uc.Verify("01001-000"))
	assert.True(t, uc.Verify("01001000"))
	assert.False(t, uc.Verify("invalid-cep"))

	assert.Equal(t, []string{
		"CEP validation for 01001-000: Valid",
		"CEP validation for 01001000: Valid",
		"CEP validation for invalid-cep: Invalid",
	}, logger.messages)
}

func TestVerifyWithLogDisabled(t *testing.T) {
	uc := NewSearchAddressUseCase(new(MockAddressGateway), nil, Options{Log: false}.Logger())
	assert.True(t, uc.Verify("72302-304"))
	assert.Equal(t, logging.Nop, uc.Logger)
}

func TestExecuteReturnsViaCepResult(t *testing.T) {
	gateway := new(MockAddressGateway)
	gateway.On("Consult", mock.Anything, cep.ViaCEP, "01001-000").Return(addressFrom(cep.ViaCEP))
	gateway.On("Consult", mock.Anything, mock.Anything, "01001-000").Return(nil)

	uc := NewSearchAddressUseCase(gateway, nil, nil)

	addr, err := uc.Execute(context.Background(), "01001-000")

	require.NoError(t, err)
	assert.Equal(t, "SP", *addr.State)
	assert.Equal(t, "São Paulo", *addr.City)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, cep.ViaCEP, addr.Neighborhood)
	assert.Equal(t, "01001000", addr.ZipCode)
}

func TestExecuteFallsBackWhenViaCepFails(t *testing.T) {
	gateway := new(MockAddressGateway)
	gateway.On("Consult", mock.Anything, cep.ViaCEP, mock.Anything).Return(nil)
	gateway.On("Consult", mock.Anything, cep.ApiCEP, mock.Anything).Return(addressFrom(cep.ApiCEP))
	gateway.On("Consult", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := NewSearchAddressUseCase(gateway, nil, nil)

	addr, err := uc.Execute(context.Background(), "01001-000")

	require.NoError(t, err)
	assert.Equal(t, cep.ApiCEP, addr.Neighborhood)
}

func TestExecuteNotFound(t *testing.T) {
	gateway := new(MockAddressGateway)
	gateway.On("Consult", mock.Anything, mock.Anything, "00000-000").Return(nil)
	logger := &recordingLogger{}

	uc := NewSearchAddressUseCase(gateway, nil, logger)

	addr, err := uc.Execute(context.Background(), "00000-000")

	assert.Nil(t, addr)
	require.Error(t, err)
	assert.Equal(t, "Zip code not found.", err.Error())
	assert.True(t, IsZipCodeNotFound(err))
	assert.True(t, IsDomainError(err))
	assert.Contains(t, logger.messages, "Error: Zip code not found.")
	gateway.AssertNumberOfCalls(t, "Consult", 4)
}

func TestExecuteConsultsEachProviderOnce(t *testing.T) {
	gateway := new(MockAddressGateway)
	gateway.On("Consult", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := NewSearchAddressUseCase(gateway, nil, nil)
	uc.Execute(context.Background(), "00000000")

	for _, name := range []string{cep.ViaCEP, cep.ApiCEP, cep.OpenCEP, cep.BrasilAPI} {
		gateway.AssertCalled(t, "Consult", mock.Anything, name, "00000000")
	}
	gateway.AssertNumberOfCalls(t, "Consult", 4)
}

func TestExecutePriorityBeatsLatency(t *testing.T) {
	gateway := &fakeGateway{
		delays: map[string]time.Duration{
			cep.ViaCEP:    80 * time.Millisecond,
			cep.ApiCEP:    time.Second,
			cep.OpenCEP:   time.Second,
			cep.BrasilAPI: time.Millisecond,
		},
		responses: map[string]*entity.Address{
			cep.ViaCEP:    addressFrom(cep.ViaCEP),
			cep.BrasilAPI: addressFrom(cep.BrasilAPI),
		},
	}

	uc := NewSearchAddressUseCase(gateway, nil, nil)

	addr, err := uc.Execute(context.Background(), "01001-000")

	require.NoError(t, err)
	assert.Equal(t, cep.ViaCEP, addr.Neighborhood)

	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	require.NotEmpty(t, gateway.finished)
	assert.Equal(t, cep.BrasilAPI, gateway.finished[0], "BrasilAPI should have answered first")
}

func TestExecuteDispatchesConcurrently(t *testing.T) {
	gateway := &fakeGateway{
		delays: map[string]time.Duration{
			cep.ViaCEP:    100 * time.Millisecond,
			cep.ApiCEP:    100 * time.Millisecond,
			cep.OpenCEP:   100 * time.Millisecond,
			cep.BrasilAPI: 100 * time.Millisecond,
		},
		responses: map[string]*entity.Address{},
	}

	uc := NewSearchAddressUseCase(gateway, nil, nil)

	start := time.Now()
	_, err := uc.Execute(context.Background(), "00000000")
	elapsed := time.Since(start)

	assert.True(t, IsZipCodeNotFound(err))
	assert.Less(t, elapsed, 350*time.Millisecond, "providers must not run one after the other")
	assert.Len(t, gateway.started, 4)
}

func TestExecuteCancelsLosers(t *testing.T) {
	gateway := &fakeGateway{
		delays: map[string]time.Duration{
			cep.ViaCEP:    time.Millisecond,
			cep.ApiCEP:    5 * time.Second,
			cep.OpenCEP:   5 * time.Second,
			cep.BrasilAPI: 5 * time.Second,
		},
		responses: map[string]*entity.Address{cep.ViaCEP: addressFrom(cep.ViaCEP)},
	}

	uc := NewSearchAddressUseCase(gateway, nil, nil)

	start := time.Now()
	addr, err := uc.Execute(context.Background(), "01001000")

	require.NoError(t, err)
	assert.Equal(t, cep.ViaCEP, addr.Neighborhood)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExecuteRecordsStats(t *testing.T) {
	gateway := new(MockAddressGateway)
	gateway.On("Consult", mock.Anything, cep.ViaCEP, mock.Anything).Return(nil)
	gateway.On("Consult", mock.Anything, cep.ApiCEP, mock.Anything).Return(nil)
	gateway.On("Consult", mock.Anything, cep.OpenCEP, mock.Anything).Return(addressFrom(cep.OpenCEP))
	gateway.On("Consult", mock.Anything, cep.BrasilAPI, mock.Anything).Return(nil)

	recorder := new(MockStatsRecorder)
	recorder.On("Record", mock.Anything, cep.ViaCEP, false).Return(nil)
	recorder.On("Record", mock.Anything, cep.ApiCEP, false).Return(errors.New("redis down"))
	recorder.On("Record", mock.Anything, cep.OpenCEP, true).Return(nil)
	logger := &recordingLogger{}

	uc := NewSearchAddressUseCase(gateway, recorder, logger)

	addr, err := uc.Execute(context.Background(), "01001000")

	require.NoError(t, err, "stats failures must not fail the lookup")
	assert.Equal(t, cep.OpenCEP, addr.Neighborhood)
	recorder.AssertExpectations(t)
	recorder.AssertNotCalled(t, "Record", mock.Anything, cep.BrasilAPI, mock.Anything)
	assert.Contains(t, logger.messages, "Error: stats ApiCEP: redis down")
}

func TestExecuteCallerDeadlineIsNotNotFound(t *testing.T) {
	gateway := &fakeGateway{
		delays: map[string]time.Duration{
			cep.ViaCEP:    200 * time.Millisecond,
			cep.ApiCEP:    200 * time.Millisecond,
			cep.OpenCEP:   200 * time.Millisecond,
			cep.BrasilAPI: 200 * time.Millisecond,
		},
		responses: map[string]*entity.Address{cep.ViaCEP: addressFrom(cep.ViaCEP)},
	}
	recorder := new(MockStatsRecorder)
	logger := &recordingLogger{}

	uc := NewSearchAddressUseCase(gateway, recorder, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	addr, err := uc.Execute(ctx, "01001000")

	assert.Nil(t, addr)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsZipCodeNotFound(err))
	assert.NotContains(t, logger.messages, "Error: Zip code not found.")
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteLosersDoNotLogErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/viacep/") {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"uf":"SP","localidade":"São Paulo","logradouro":"Praça da Sé","bairro":"Sé"}`))
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(300 * time.Millisecond):
		}
	}))
	defer srv.Close()

	providers := cep.DefaultProviders()
	for i := range providers {
		providers[i].BaseURL = srv.URL + "/" + strings.ToLower(providers[i].Name) + "/"
	}
	logger := &recordingLogger{}
	client := cep.NewClient(cep.NewHTTPGetter(0), logger, providers)
	uc := NewSearchAddressUseCase(client, nil, logger)

	addr, err := uc.Execute(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "Sé", addr.Neighborhood)

	// os perdedores terminam depois que Execute retorna
	time.Sleep(100 * time.Millisecond)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	for _, msg := range logger.messages {
		assert.False(t, strings.HasPrefix(msg, "Error:"), msg)
	}
}

func TestExecuteWithRealClientLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(true, &buf)

	getter := &staticGetter{status: 200, body: `{"erro": true}`}
	client := cep.NewClient(getter, logger, nil)
	uc := NewSearchAddressUseCase(client, stats.NewMemoryStore(), logger)

	_, err := uc.Execute(context.Background(), "00000-000")

	require.ErrorIs(t, err, ErrZipCodeNotFound)
	out := buf.String()
	for _, name := range []string{cep.ViaCEP, cep.ApiCEP, cep.OpenCEP, cep.BrasilAPI} {
		assert.Contains(t, out, fmt.Sprintf("Consulting %s...", name))
	}
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Error: Zip code not found."))
}

type staticGetter struct {
	status int
	body   string
}

func (g *staticGetter) Get(context.Context, string) (int, []byte, error) {
	return g.status, []byte(g.body), nil
}
