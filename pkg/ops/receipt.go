package ops

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chemstack/chemstack/pkg/catalog"
	"github.com/chemstack/chemstack/pkg/data"
)

// ReceiptName is written at the top of each install prefix.
const ReceiptName = ".chemstack.json"

func WriteReceipt(ienv *InstallEnv, pkg *catalog.Package, prefix string) error {
	info := data.InstallInfo{
		Name:        pkg.Name,
		Version:     pkg.Version,
		Archive:     pkg.Archive,
		Prefix:      prefix,
		Deps:        pkg.Deps,
		InstalledAt: time.Now(),
	}

	if ienv.Config != nil {
		info.Constraints = ienv.Config.Constraints()
	}

	f, err := os.Create(filepath.Join(prefix, ReceiptName))
	if err != nil {
		return err
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(&info)
}

func ReadReceipt(prefix string) (*data.InstallInfo, error) {
	f, err := os.Open(filepath.Join(prefix, ReceiptName))
	if err != nil {
		return nil, err
	}

	defer f.Close()

	var info data.InstallInfo

	err = json.NewDecoder(f).Decode(&info)
	if err != nil {
		return nil, err
	}

	return &info, nil
}
