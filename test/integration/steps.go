package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/session"
)

// defaultPassword is the password of every user the steps create.
const defaultPassword = "correct-horse-battery"

var placeholderRegex = regexp.MustCompile(`\{(org|user|var):([^}]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	client       *http.Client
	response     *http.Response
	responseBody []byte

	// prefix keeps names unique across scenarios sharing one database.
	prefix string
	orgs   map[string]uuid.UUID
	users  map[string]uuid.UUID
	vars   map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:     tc,
		client: &http.Client{Timeout: 30 * time.Second},
		prefix: uuid.NewString()[:8],
		orgs:   make(map[string]uuid.UUID),
		users:  make(map[string]uuid.UUID),
		vars:   make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Fixtures
	sc.Step(`^a BGuard server is running$`, s.aBGuardServerIsRunning)
	sc.Step(`^an organization "([^"]*)" exists$`, s.anOrganizationExists)
	sc.Step(`^a platform admin "([^"]*)" exists$`, s.aPlatformAdminExists)
	sc.Step(`^a "([^"]*)" user "([^"]*)" exists in "([^"]*)"$`, s.aUserExistsIn)
	sc.Step(`^"([^"]*)" owns a threat model "([^"]*)"$`, s.ownsAThreatModel)

	// Authentication
	sc.Step(`^I log in as "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInWithPassword)
	sc.Step(`^I am not logged in$`, s.iAmNotLoggedIn)

	// Requests
	sc.Step(`^I send a (GET|POST|PUT|PATCH|DELETE) request to "([^"]*)"$`, s.iSendARequest)
	sc.Step(`^I send a (POST|PUT|PATCH) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)

	// Responses
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, s.theResponseHeaderShouldContain)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
	sc.Step(`^the JSON array "([^"]*)" should have (\d+) items?$`, s.theJSONArrayShouldHave)
	sc.Step(`^I remember the JSON field "([^"]*)" as "([^"]*)"$`, s.iRememberTheJSONField)

	// Database state
	sc.Step(`^the threat model "([^"]*)" should be owned by "([^"]*)"$`, s.theThreatModelShouldBeOwnedBy)
	sc.Step(`^user "([^"]*)" should not exist$`, s.userShouldNotExist)
	sc.Step(`^a "([^"]*)" security event should have been recorded for "([^"]*)"$`, s.aSecurityEventShouldHaveBeenRecorded)
	sc.Step(`^the AI provider should have been called$`, s.theAIProviderShouldHaveBeenCalled)
}

// Fixtures

func (s *StepsContext) aBGuardServerIsRunning() error {
	return nil
}

func (s *StepsContext) orgName(name string) string {
	return name + " " + s.prefix
}

// email makes addresses unique per scenario: alice@acme.test becomes
// alice+1a2b3c4d@acme.test.
func (s *StepsContext) email(address string) string {
	local, domain, ok := strings.Cut(address, "@")
	if !ok {
		return address
	}
	return local + "+" + s.prefix + "@" + domain
}

func (s *StepsContext) anOrganizationExists(name string) error {
	org := model.Organization{Name: s.orgName(name), Slug: model.Slugify(s.orgName(name)), Active: true}
	if err := s.tc.DB.Create(&org).Error; err != nil {
		return fmt.Errorf("failed to create organization %s: %w", name, err)
	}
	s.orgs[name] = org.ID
	return nil
}

func (s *StepsContext) createUser(address string, role model.Role, orgID *uuid.UUID) error {
	hash, err := session.HashPassword(defaultPassword)
	if err != nil {
		return err
	}
	user := model.User{
		OrganizationID: orgID,
		Email:          s.email(address),
		Name:           address,
		PasswordHash:   hash,
		Role:           role,
		Active:         true,
	}
	if err := s.tc.DB.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", address, err)
	}
	s.users[address] = user.ID
	return nil
}

func (s *StepsContext) aPlatformAdminExists(address string) error {
	return s.createUser(address, model.RolePlatformAdmin, nil)
}

func (s *StepsContext) aUserExistsIn(role, address, orgName string) error {
	r, err := model.ParseRole(role)
	if err != nil {
		return err
	}
	orgID, ok := s.orgs[orgName]
	if !ok {
		return fmt.Errorf("unknown organization %q", orgName)
	}
	return s.createUser(address, r, &orgID)
}

func (s *StepsContext) ownsAThreatModel(address, name string) error {
	userID, ok := s.users[address]
	if !ok {
		return fmt.Errorf("unknown user %q", address)
	}
	var user model.User
	if err := s.tc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	if user.OrganizationID == nil {
		return fmt.Errorf("user %q has no organization", address)
	}

	tm := model.ThreatModel{
		OrganizationID: *user.OrganizationID,
		OwnerID:        userID,
		Name:           name,
		Description:    "Customer facing payment API",
		SystemScope:    "api gateway, payments service, postgres",
		Status:         model.ThreatModelDraft,
	}
	if err := s.tc.DB.Create(&tm).Error; err != nil {
		return fmt.Errorf("failed to create threat model %s: %w", name, err)
	}
	s.vars[name] = tm.ID.String()
	return nil
}

// Authentication

func (s *StepsContext) iLogInAs(address string) error {
	if err := s.iLogInWithPassword(address, defaultPassword); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("login as %s failed with %d: %s", address, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iLogInWithPassword(address, password string) error {
	if err := s.iAmNotLoggedIn(); err != nil {
		return err
	}
	body, err := json.Marshal(map[string]string{"email": s.email(address), "password": password})
	if err != nil {
		return err
	}
	return s.do(http.MethodPost, "/auth/login", body)
}

func (s *StepsContext) iAmNotLoggedIn() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	s.client = &http.Client{Timeout: 30 * time.Second, Jar: jar}
	return nil
}

// Requests

// expand replaces {org:Name}, {user:address} and {var:name} in path.
func (s *StepsContext) expand(text string) string {
	return placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
		parts := placeholderRegex.FindStringSubmatch(m)
		switch parts[1] {
		case "org":
			if id, ok := s.orgs[parts[2]]; ok {
				return id.String()
			}
		case "user":
			if id, ok := s.users[parts[2]]; ok {
				return id.String()
			}
		case "var":
			if v, ok := s.vars[parts[2]]; ok {
				return v
			}
		}
		return m
	})
}

func (s *StepsContext) do(method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+s.expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.response, err = s.client.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iSendARequest(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, []byte(s.expand(body.Content)))
}

// Responses

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no request was sent")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !bytes.Contains(s.responseBody, []byte(s.expand(text))) {
		return fmt.Errorf("response does not contain %q: %s", text, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseHeaderShouldContain(name, text string) error {
	if v := s.response.Header.Get(name); !strings.Contains(v, text) {
		return fmt.Errorf("header %s is %q, expected it to contain %q", name, v, text)
	}
	return nil
}

// jsonField resolves a dotted path like "records.threat_models" in the
// response body.
func (s *StepsContext) jsonField(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: not an object at %q", path, key)
		}
		if doc, ok = obj[key]; !ok {
			return nil, fmt.Errorf("%s: no field %q in %s", path, key, s.responseBody)
		}
	}
	return doc, nil
}

func (s *StepsContext) theJSONFieldShouldBe(path, want string) error {
	v, err := s.jsonField(path)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != s.expand(want) {
		return fmt.Errorf("%s is %q, expected %q", path, got, want)
	}
	return nil
}

func (s *StepsContext) theJSONArrayShouldHave(path string, n int) error {
	v, err := s.jsonField(path)
	if err != nil {
		return err
	}
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%s is not an array", path)
	}
	if len(items) != n {
		return fmt.Errorf("%s has %d items, expected %d", path, len(items), n)
	}
	return nil
}

func (s *StepsContext) iRememberTheJSONField(path, name string) error {
	v, err := s.jsonField(path)
	if err != nil {
		return err
	}
	s.vars[name] = fmt.Sprint(v)
	return nil
}

// Database state

func (s *StepsContext) theThreatModelShouldBeOwnedBy(name, address string) error {
	var tm model.ThreatModel
	if err := s.tc.DB.First(&tm, "id = ?", s.vars[name]).Error; err != nil {
		return fmt.Errorf("threat model %s: %w", name, err)
	}
	if want := s.users[address]; tm.OwnerID != want {
		return fmt.Errorf("threat model %s is owned by %s, expected %s (%s)", name, tm.OwnerID, address, want)
	}
	return nil
}

func (s *StepsContext) userShouldNotExist(address string) error {
	var count int64
	if err := s.tc.DB.Model(&model.User{}).Where("id = ?", s.users[address]).Count(&count).Error; err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("user %s still exists", address)
	}
	return nil
}

func (s *StepsContext) aSecurityEventShouldHaveBeenRecorded(msgID, address string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int64
	err := s.tc.RawDB.QueryRowContext(ctx,
		`SELECT count(*) FROM security_events WHERE msgid = $1 AND actor_id = $2`,
		msgID, s.users[address],
	).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no %q security event for %s", msgID, address)
	}
	return nil
}

func (s *StepsContext) theAIProviderShouldHaveBeenCalled() error {
	if s.tc.LLM.Calls() == 0 {
		return fmt.Errorf("the AI provider was never called")
	}
	return nil
}
