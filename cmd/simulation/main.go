package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	minTransactions = 20
	maxTransactions = 120
	numWorkers      = 5
	numPartners     = 4
	serverAddress   = "http://localhost:8080"
)

var descriptions = []string{
	"land purchase contribution",
	"construction phase funding",
	"licensing fees",
	"marketing expenses",
	"contractor payment",
}

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	mu         sync.Mutex
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
}

// addDuration records a new duration measurement for the route
func (rs *routeStats) addDuration(d time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

func (rs *routeStats) addFailure() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.failures++
}

// calculate computes performance statistics from recorded durations
// Returns min, max, mean, median, 95th percentile, and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	// Sort durations for percentile calculations
	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))

	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// simulationClient handles HTTP communication with the bookkeeping API
type simulationClient struct {
	baseURL   string
	authToken string
	client    *http.Client
	stats     map[string]*routeStats
}

// newSimulationClient creates and initializes a new simulation client
// It authenticates with the API and prepares performance tracking
func newSimulationClient() (*simulationClient, error) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	sc := &simulationClient{
		baseURL: serverAddress,
		client:  client,
		stats: map[string]*routeStats{
			"auth":        {name: "Authentication"},
			"project":     {name: "Create Project"},
			"partner":     {name: "Create Partner"},
			"cashbox":     {name: "Create Cashbox"},
			"transaction": {name: "Create Transaction"},
			"settle":      {name: "Calculate Settlements"},
			"list":        {name: "List Settlements"},
		},
	}

	token, err := sc.authenticate()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	sc.authToken = token

	return sc, nil
}

// authenticate performs API authentication and returns a JWT token
func (sc *simulationClient) authenticate() (string, error) {
	start := time.Now()
	defer func() {
		sc.stats["auth"].addDuration(time.Since(start))
	}()

	credentials := map[string]string{
		"api_key":    getEnv("API_KEY", "test-api-key"),
		"api_secret": getEnv("API_SECRET", "test-api-secret"),
	}

	body, err := json.Marshal(credentials)
	if err != nil {
		return "", err
	}

	resp, err := sc.client.Post(
		fmt.Sprintf("%s/api/v1/auth/token", sc.baseURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("authentication failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"jwt_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Data.Token, nil
}

// post sends an authenticated POST with a JSON payload and decodes the
// response envelope's data field into out
func (sc *simulationClient) post(stat, path string, payload interface{}, idempotent bool, out interface{}) error {
	start := time.Now()
	defer func() {
		sc.stats[stat].addDuration(time.Since(start))
	}()

	var buf io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(body)
	}

	req, err := http.NewRequest("POST", sc.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sc.authToken))
	req.Header.Set("Content-Type", "application/json")
	if idempotent {
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		sc.stats[stat].addFailure()
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	log.Debug().Str("path", path).Str("response", string(respBody)).Msg("POST response")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		sc.stats[stat].addFailure()
		return fmt.Errorf("POST %s failed with status %d: %s", path, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}

	envelope := struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}

	return nil
}

// get sends an authenticated GET and decodes the response envelope's data
// field into out
func (sc *simulationClient) get(stat, path string, out interface{}) error {
	start := time.Now()
	defer func() {
		sc.stats[stat].addDuration(time.Since(start))
	}()

	req, err := http.NewRequest("GET", sc.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sc.authToken))

	resp, err := sc.client.Do(req)
	if err != nil {
		sc.stats[stat].addFailure()
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		sc.stats[stat].addFailure()
		return fmt.Errorf("GET %s failed with status %d: %s", path, resp.StatusCode, string(respBody))
	}

	envelope := struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}

	return nil
}

func (sc *simulationClient) createProject() (string, error) {
	var project struct {
		ProjectID string `json:"project_id"`
	}
	err := sc.post("project", "/api/v1/projects", map[string]interface{}{
		"name":        fmt.Sprintf("Simulated Development %d", rand.Intn(1000)),
		"description": "load simulation project",
	}, false, &project)
	if err != nil {
		return "", err
	}
	if project.ProjectID == "" {
		return "", fmt.Errorf("no project ID in response")
	}
	return project.ProjectID, nil
}

func (sc *simulationClient) createPartner(projectID, name string, share float64) (string, error) {
	var partner struct {
		PartnerID string `json:"partner_id"`
	}
	err := sc.post("partner", "/api/v1/partners", map[string]interface{}{
		"project_id":       projectID,
		"name":             name,
		"share_percentage": share,
	}, false, &partner)
	if err != nil {
		return "", err
	}
	return partner.PartnerID, nil
}

func (sc *simulationClient) createCashbox() (string, error) {
	var cashbox struct {
		CashboxID string `json:"cashbox_id"`
	}
	err := sc.post("cashbox", "/api/v1/cashboxes", map[string]interface{}{
		"name":            "Simulation Cashbox",
		"initial_balance": 1000000,
	}, false, &cashbox)
	if err != nil {
		return "", err
	}
	return cashbox.CashboxID, nil
}

func (sc *simulationClient) createTransaction(projectID, partnerID, cashboxID string) error {
	txnType := "RECEIPT"
	if rand.Float64() < 0.3 {
		txnType = "PAYMENT"
	}

	return sc.post("transaction", "/api/v1/transactions", map[string]interface{}{
		"type":        txnType,
		"amount":      float64(rand.Intn(50000) + 1000),
		"project_id":  projectID,
		"partner_id":  partnerID,
		"cashbox_id":  cashboxID,
		"description": descriptions[rand.Intn(len(descriptions))],
	}, true, nil)
}

func (sc *simulationClient) calculateSettlements(projectID string) (int, error) {
	var settlements []struct {
		SettlementID      string  `json:"settlement_id"`
		PartnerID         string  `json:"partner_id"`
		OutstandingAmount float64 `json:"outstanding_amount"`
		Notes             string  `json:"notes"`
	}
	path := fmt.Sprintf("/api/v1/projects/%s/settlements/calculate", projectID)
	if err := sc.post("settle", path, nil, true, &settlements); err != nil {
		return 0, err
	}

	for _, stl := range settlements {
		log.Info().
			Str("settlement_id", stl.SettlementID).
			Str("partner_id", stl.PartnerID).
			Float64("outstanding", stl.OutstandingAmount).
			Str("notes", stl.Notes).
			Msg("Settlement created")
	}
	return len(settlements), nil
}

func (sc *simulationClient) listSettlements(projectID string) (int, error) {
	var settlements []struct {
		SettlementID string `json:"settlement_id"`
	}
	path := fmt.Sprintf("/api/v1/settlements?project_id=%s", projectID)
	if err := sc.get("list", path, &settlements); err != nil {
		return 0, err
	}
	return len(settlements), nil
}

// printStats outputs performance statistics for all API routes
func (sc *simulationClient) printStats() {
	log.Info().Msg("=== Simulation Performance Statistics ===")
	for _, rs := range sc.stats {
		if rs.totalCalls == 0 {
			continue
		}
		min, max, mean, median, p95, p99 := rs.calculate()
		log.Info().
			Str("route", rs.name).
			Int("calls", rs.totalCalls).
			Int("failures", rs.failures).
			Dur("min", min).
			Dur("max", max).
			Dur("mean", mean).
			Dur("median", median).
			Dur("p95", p95).
			Dur("p99", p99).
			Msg("Route statistics")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// main runs a full bookkeeping flow against a locally running server: it
// seeds a project with partners and a cashbox, records a randomized batch of
// transactions concurrently, runs settlement equalization twice (the second
// run should find nothing new) and reports route timings.
func main() {
	sc, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create simulation client")
	}

	projectID, err := sc.createProject()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create project")
	}
	log.Info().Str("project_id", projectID).Msg("Created project")

	partnerIDs := make([]string, 0, numPartners)
	for i := 0; i < numPartners; i++ {
		partnerID, err := sc.createPartner(projectID, fmt.Sprintf("Partner %d", i+1), 100.0/numPartners)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create partner")
		}
		partnerIDs = append(partnerIDs, partnerID)
	}
	log.Info().Int("count", len(partnerIDs)).Msg("Created partners")

	cashboxID, err := sc.createCashbox()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cashbox")
	}

	numTxns := rand.Intn(maxTransactions-minTransactions) + minTransactions
	log.Info().Int("transactions", numTxns).Int("workers", numWorkers).Msg("Recording transactions")

	jobs := make(chan int, numTxns)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				partnerID := partnerIDs[rand.Intn(len(partnerIDs))]
				if err := sc.createTransaction(projectID, partnerID, cashboxID); err != nil {
					log.Error().Err(err).Msg("Failed to create transaction")
				}
			}
		}()
	}

	for i := 0; i < numTxns; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	created, err := sc.calculateSettlements(projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to calculate settlements")
	}
	log.Info().Int("settlements", created).Msg("First settlement run complete")

	// A repeat run must find nothing: every transaction was consumed above.
	repeat, err := sc.calculateSettlements(projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to repeat settlement run")
	}
	if repeat != 0 {
		log.Warn().Int("settlements", repeat).Msg("Repeat run unexpectedly settled transactions")
	} else {
		log.Info().Msg("Repeat settlement run settled nothing, as expected")
	}

	total, err := sc.listSettlements(projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list settlements")
	}
	log.Info().Int("total", total).Msg("Settlement history")

	sc.printStats()
}
