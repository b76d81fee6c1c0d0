package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	geminisvc "github.com/trezcool/edutube/services/gemini"
	"github.com/trezcool/edutube/storage/database/inmem"
	"github.com/trezcool/edutube/tests"
)

const pwd = "Tr0ub4dor&3x"

var usrRepo user.Repository

type fakeModels struct {
	models  []geminisvc.ModelInfo
	answers map[string]string
}

func (f *fakeModels) ListModels(context.Context) ([]geminisvc.ModelInfo, error) {
	return f.models, nil
}

func (f *fakeModels) Generate(_ context.Context, cand content.Candidate, req content.GenerationRequest) (string, error) {
	if req.Prompt != probePrompt {
		return "", errors.New("unexpected prompt")
	}
	if text, ok := f.answers[cand.Name]; ok {
		return text, nil
	}
	return "", errors.New("googleapi: Error 404: model not found")
}

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
	validate, _ := testutil.NewValidator()

	var out bytes.Buffer
	return &commandLine{
		usrSvc:     user.NewService(usrRepo, validate),
		migrate:    func(context.Context) ([]string, error) { return nil, nil },
		candidates: content.DefaultCandidates,
		out:        &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if ex, ok := tt.extra.(extra); ok {
			return []byte(ex.pwd), nil
		}
		return nil, nil
	}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			checkErr(t, tt, cli.run(args))
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, _ := setup(t)
	testutil.CreateUser(t, usrRepo, "Ada Lovelace", "ada@example.com", pwd, user.RoleTeacher)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no name", args: []string{"adduser", "-email", "grace@example.com"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "grace@example.com", "-name", "Grace Hopper"}, wantErr: errHelp},
		{
			name:       "email taken",
			args:       []string{"adduser", "-email", "ada@example.com", "-name", "Ada", "-role", "teacher"},
			extra:      extra{pwd: pwd},
			wantErrStr: user.ErrEmailExists.Error(),
		},
		{
			name:       "invalid role",
			args:       []string{"adduser", "-email", "grace@example.com", "-name", "Grace Hopper", "-role", "admin"},
			extra:      extra{pwd: pwd},
			wantErrStr: "role",
		},
		{
			name:  "added",
			args:  []string{"adduser", "-email", "grace@example.com", "-name", "Grace Hopper", "-role", "teacher"},
			extra: extra{pwd: pwd},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	usr, err := usrRepo.GetUserByEmailAndRole(context.Background(), "grace@example.com", user.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", usr.FullName)
	assert.NoError(t, usr.CheckPassword(pwd))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Ada Lovelace", "ada@example.com", pwd, user.RoleStudent)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@example.com"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@example.com"}, extra: extra{pwd: "An0ther-Secret"}, wantErr: user.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "123"}, wantErrStr: "pwdminlen"},
		{name: "reset", args: []string{"resetpassword", "-email", "ADA@example.com"}, extra: extra{pwd: "An0ther-Secret"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, refreshedUsr.CheckPassword("An0ther-Secret"))
}

func Test_commandLine_ensureIndexes(t *testing.T) {
	cli, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "ensureindexes"}))
	assert.Equal(t, "no indexes to create\n", out.String())

	out.Reset()
	cli.migrate = func(context.Context) ([]string, error) {
		return []string{"contents.status_1", "users.email_1"}, nil
	}
	require.NoError(t, cli.run([]string{"admin", "ensureindexes"}))
	assert.Equal(t, "contents.status_1\nusers.email_1\n", out.String())

	errDown := errors.New("db down")
	cli.migrate = func(context.Context) ([]string, error) { return nil, errDown }
	assert.Equal(t, errDown, cli.run([]string{"admin", "ensureindexes"}))
}

func Test_commandLine_models(t *testing.T) {
	cli, out := setup(t)

	assert.Equal(t, errNoAIKey, cli.run([]string{"admin", "listmodels"}))
	assert.Equal(t, errNoAIKey, cli.run([]string{"admin", "probemodels"}))

	fake := &fakeModels{
		models: []geminisvc.ModelInfo{
			{Name: "gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash"},
			{Name: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash"},
		},
		answers: map[string]string{},
	}
	cli.models, cli.model = fake, fake

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "listmodels"}))
	assert.Equal(t, "gemini-2.5-flash\tGemini 2.5 Flash\ngemini-2.0-flash\tGemini 2.0 Flash\n", out.String())

	out.Reset()
	assert.Equal(t, errNoAnswer, cli.run([]string{"admin", "probemodels"}))
	assert.Contains(t, out.String(), "0/5 models answered")

	fake.answers["gemini-2.0-flash"] = "Hello\nthere"
	fake.answers["gemini-flash-latest"] = "   "
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "probemodels"}))
	assert.Contains(t, out.String(), "OK   gemini-2.0-flash@v1beta: Hello\n")
	assert.Contains(t, out.String(), "FAIL gemini-flash-latest@v1beta: "+content.ErrEmptyResponse.Error())
	assert.Contains(t, out.String(), "1/5 models answered")
}

func Test_firstLine(t *testing.T) {
	assert.Equal(t, "Hello", firstLine("  Hello\nworld", 50))
	assert.Equal(t, "abc...", firstLine("abcdef", 3))
	assert.Equal(t, "", firstLine("", 3))
}
