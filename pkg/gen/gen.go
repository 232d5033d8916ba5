package gen

import (
	"github.com/kartiknair/lswift/pkg/ast"
	cgen "github.com/kartiknair/lswift/pkg/gen/c"
	llvmgen "github.com/kartiknair/lswift/pkg/gen/llvm"
)

// C renders an analyzed program as C99 source.
func C(program []ast.Expression, entry string) string {
	return cgen.Gen(program, cgen.WithEntry(entry))
}

// LLVM lowers an analyzed program and verifies the result before returning
// it.
func LLVM(program []ast.Expression, path, entry string) (*llvmgen.Module, error) {
	m, err := llvmgen.Gen(program, llvmgen.WithEntry(entry), llvmgen.WithSourceFilename(path))
	if err != nil {
		return nil, err
	}

	if err := m.Verify(); err != nil {
		return nil, err
	}

	return m, nil
}
