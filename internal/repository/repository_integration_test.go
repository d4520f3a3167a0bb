package repository_test

import (
    "context"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "github.com/testcontainers/testcontainers-go"
    "github.com/testcontainers/testcontainers-go/wait"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/repository"
)

func setupPostgres(t *testing.T) *repository.Repos {
    t.Helper()
    if testing.Short() {
        t.Skip("integration test")
    }
    testcontainers.SkipIfProviderIsNotHealthy(t)

    ctx := context.Background()
    pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
        ContainerRequest: testcontainers.ContainerRequest{
            Image: "postgres:15",
            Env: map[string]string{
                "POSTGRES_PASSWORD": "test",
                "POSTGRES_USER":     "test",
                "POSTGRES_DB":       "vibedoc",
            },
            ExposedPorts: []string{"5432/tcp"},
            WaitingFor: wait.ForLog("database system is ready to accept connections").
                WithOccurrence(2).WithStartupTimeout(60 * time.Second),
        },
        Started: true,
    })
    if err != nil {
        t.Skipf("postgres container unavailable: %v", err)
    }
    t.Cleanup(func() { _ = pg.Terminate(ctx) })

    host, err := pg.Host(ctx)
    require.NoError(t, err)
    port, err := pg.MappedPort(ctx, "5432")
    require.NoError(t, err)

    dsn := fmt.Sprintf("postgres://test:test@%s:%s/vibedoc?sslmode=disable", host, port.Port())
    db, err := repository.Open(dsn, true)
    require.NoError(t, err)
    return repository.NewRepositories(db)
}

func TestRepositoriesIntegration(t *testing.T) {
    repos := setupPostgres(t)
    ctx := context.Background()

    require.NoError(t, repos.Ping(ctx))

    p := &models.Project{Name: "Clinic"}
    require.NoError(t, repos.Project.CreateProject(ctx, p))
    require.NotZero(t, p.ID)

    require.NoError(t, repos.Document.CreateDocument(ctx, &models.AdditionalDocument{
        ProjectID: p.ID, FileName: "id.pdf", FileType: "application/pdf", CloudName: "abc-id.pdf",
    }))

    f := &models.Form{ProjectID: p.ID, Name: "intake", FileName: "intake.pdf", FileType: "application/pdf", CloudName: "def-intake.pdf"}
    require.NoError(t, repos.Form.CreateForm(ctx, f))

    t.Run("inputs are written concurrently and keep their value kind", func(t *testing.T) {
        inputs := []models.Input{
            {FormID: f.ID, Name: "First name", Type: models.InputTypeInput, Value: models.TextValue("Jane"), PdfElementID: "first_name"},
            {FormID: f.ID, Name: "Allergies", Type: models.InputTypeCheckbox, Value: models.CheckboxValue(true), PdfElementID: "has_allergies"},
        }
        var wg sync.WaitGroup
        errs := make([]error, len(inputs))
        for i := range inputs {
            wg.Add(1)
            go func(i int) {
                defer wg.Done()
                errs[i] = repos.Input.CreateInput(ctx, &inputs[i])
            }(i)
        }
        wg.Wait()
        for _, err := range errs {
            require.NoError(t, err)
        }

        n, err := repos.Input.CountInputsByForm(ctx, f.ID)
        require.NoError(t, err)
        assert.EqualValues(t, 2, n)

        got, err := repos.Form.GetFormWithInputs(ctx, f.ID)
        require.NoError(t, err)
        require.Len(t, got.Inputs, 2)
        byElement := map[string]models.Input{}
        for _, in := range got.Inputs {
            byElement[in.PdfElementID] = in
        }
        assert.Equal(t, "Jane", byElement["first_name"].Value.Text())
        assert.True(t, byElement["has_allergies"].Value.Checked())
        require.NotNil(t, got.Project)
        assert.Equal(t, "Clinic", got.Project.Name)
    })

    t.Run("duplicate pdf element id is rejected", func(t *testing.T) {
        err := repos.Input.CreateInput(ctx, &models.Input{FormID: f.ID, Name: "dup", Type: models.InputTypeInput, PdfElementID: "first_name"})
        assert.Error(t, err)
    })

    t.Run("list projects counts documents", func(t *testing.T) {
        items, err := repos.Project.ListProjects(ctx)
        require.NoError(t, err)
        require.Len(t, items, 1)
        assert.EqualValues(t, 1, items[0].DocumentCount)
    })

    t.Run("update project fields", func(t *testing.T) {
        got, err := repos.Project.UpdateProjectFields(ctx, p.ID, map[string]any{"system_prompt": "Be terse"})
        require.NoError(t, err)
        assert.Equal(t, "Be terse", got.SystemPrompt)

        _, err = repos.Project.UpdateProjectFields(ctx, 9999, map[string]any{"name": "x"})
        assert.True(t, apperr.IsNotFound(err))
    })

    t.Run("delete cascades", func(t *testing.T) {
        require.NoError(t, repos.Project.DeleteProject(ctx, p.ID))

        _, err := repos.Form.GetFormByID(ctx, f.ID)
        assert.True(t, apperr.IsNotFound(err))
        n, err := repos.Input.CountInputsByForm(ctx, f.ID)
        require.NoError(t, err)
        assert.Zero(t, n)
        docs, err := repos.Document.ListDocumentsByProject(ctx, p.ID)
        require.NoError(t, err)
        assert.Empty(t, docs)
    })
}
