package cmd

import (
	"go.uber.org/dig"

	"github.com/cratediff/cratediff/application"
	"github.com/cratediff/cratediff/domain"
	"github.com/cratediff/cratediff/infrastructure/gitrepo"
)

// injectDiffService wires the diff service through a DIG container: the Git
// repository at repoPath is bound as the content provider behind the service.
func injectDiffService(repoPath string) (*application.DiffService, error) {
	container := dig.New()

	err := container.Provide(
		func() (*gitrepo.Repository, error) { return gitrepo.Open(repoPath) },
		dig.As(new(domain.ContentProvider)),
	)
	if err != nil {
		return nil, err
	}
	if err := container.Provide(application.NewDiffService); err != nil {
		return nil, err
	}

	var svc *application.DiffService
	if err := container.Invoke(func(s *application.DiffService) { svc = s }); err != nil {
		return nil, err
	}
	return svc, nil
}
