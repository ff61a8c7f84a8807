package seed

import (
	"context"
	"os"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ repository.SeedSource = FileSource{}

// FileSource lee la semilla de un archivo TSV local en cada carga.
type FileSource struct {
	Path string
}

// Load abre y parsea el archivo. Un archivo inexistente o ilegible es un IOError.
func (f FileSource) Load(ctx context.Context) (entity.StockList, error) {
	if err := ctx.Err(); err != nil {
		return entity.StockList{}, domain.IOError("leer semilla "+f.Path, err)
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return entity.StockList{}, domain.IOError("abrir semilla "+f.Path, err)
	}
	defer func() { _ = file.Close() }()
	return Parse(file)
}
