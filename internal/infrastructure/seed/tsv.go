// Package seed implementa la fuente semilla: una lista de stock en formato TSV leída de un
// archivo local o de un objeto S3. Es de solo lectura.
//
// Formato:
//
//	# LastModified: 2022-02-09T12:00:00Z
//	<id>\t<name>\t<sellBy YYYY-MM-DD o vacío>\t<quality>
//
// Las demás líneas que empiezan con '#' y las líneas vacías se ignoran.
package seed

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

const (
	lastModifiedHeader = "# LastModified:"
	dateLayout         = "2006-01-02"
)

// Parse lee una lista de stock TSV. Los errores de formato son *domain.StockListLoadingError.
func Parse(r io.Reader) (entity.StockList, error) {
	var (
		lastModified time.Time
		items        []entity.Item
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, lastModifiedHeader) {
			raw := strings.TrimSpace(strings.TrimPrefix(line, lastModifiedHeader))
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return entity.StockList{}, domain.ParseError(domain.LoadingErrorCouldntParseLastModified, line)
			}
			lastModified = t
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		item, err := parseItem(line)
		if err != nil {
			return entity.StockList{}, err
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return entity.StockList{}, domain.IOError("leer TSV", err)
	}
	return entity.NewStockList(lastModified, items), nil
}

func parseItem(line string) (entity.Item, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return entity.Item{}, domain.ParseError(domain.LoadingErrorNotEnoughFields, line)
	}
	id, err := entity.NewID[entity.Item](fields[0])
	if err != nil {
		return entity.Item{}, domain.ParseError(domain.LoadingErrorBlankID, line)
	}
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return entity.Item{}, domain.ParseError(domain.LoadingErrorBlankName, line)
	}
	var sellBy *time.Time
	if raw := strings.TrimSpace(fields[2]); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return entity.Item{}, domain.ParseError(domain.LoadingErrorCouldntParseSellBy, line)
		}
		sellBy = &d
	}
	quality, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return entity.Item{}, domain.ParseError(domain.LoadingErrorCouldntParseQuality, line)
	}
	return entity.NewItem(id, name, sellBy, quality), nil
}
