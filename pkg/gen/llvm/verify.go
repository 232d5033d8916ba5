package llvmgen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// Module is the output of Gen, ready to be printed or handed to clang.
type Module struct {
	module *ir.Module
}

// IR exposes the underlying llir module.
func (m *Module) IR() *ir.Module {
	return m.module
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *ir.Func {
	for _, f := range m.module.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// String renders the module as textual LLVM IR.
func (m *Module) String() string {
	return m.module.String()
}

// VerifyError lists every structural problem found in a module.
type VerifyError struct {
	Problems []string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("IR verification failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Verify checks the structural integrity of the module. It returns a
// *VerifyError describing all violations found, or nil if valid.
func (m *Module) Verify() error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	for _, f := range m.module.Funcs {
		verifyFunc(f, add)
	}

	if len(errs) == 0 {
		return nil
	}
	return &VerifyError{Problems: errs}
}

func verifyFunc(f *ir.Func, add func(string, ...interface{})) {
	if len(f.Blocks) == 0 {
		// Only external declarations may go without a body.
		if f.Linkage == enum.LinkagePrivate || f.Linkage == enum.LinkageInternal {
			add("func %s: defined without blocks", f.Name())
		}
		return
	}

	for i, b := range f.Blocks {
		// 1. Every block ends in a terminator
		if b.Term == nil {
			add("func %s, block %d: missing terminator", f.Name(), i)
		}

		// 2. ret matches the return type
		if ret, ok := b.Term.(*ir.TermRet); ok {
			verifyRet(f, i, ret, add)
		}

		// 3. Calls match the callee signature
		for _, inst := range b.Insts {
			if call, ok := inst.(*ir.InstCall); ok {
				verifyCall(f, i, call, add)
			}
		}
	}
}

func verifyRet(f *ir.Func, block int, ret *ir.TermRet, add func(string, ...interface{})) {
	want := f.Sig.RetType

	if ret.X == nil {
		if !want.Equal(types.Void) {
			add("func %s, block %d: ret void in function returning %s", f.Name(), block, want)
		}
		return
	}

	if got := ret.X.Type(); !got.Equal(want) {
		add("func %s, block %d: ret %s in function returning %s", f.Name(), block, got, want)
	}
}

func verifyCall(f *ir.Func, block int, call *ir.InstCall, add func(string, ...interface{})) {
	callee, ok := call.Callee.(*ir.Func)
	if !ok {
		return
	}

	params := callee.Sig.Params
	if callee.Sig.Variadic {
		if len(call.Args) < len(params) {
			add("func %s, block %d: call to %s has %d args, want at least %d",
				f.Name(), block, callee.Name(), len(call.Args), len(params))
		}
	} else if len(call.Args) != len(params) {
		add("func %s, block %d: call to %s has %d args, want %d",
			f.Name(), block, callee.Name(), len(call.Args), len(params))
		return
	}

	for i, param := range params {
		if i >= len(call.Args) {
			break
		}
		if got := call.Args[i].Type(); !got.Equal(param) {
			add("func %s, block %d: call to %s arg[%d] is %s, want %s",
				f.Name(), block, callee.Name(), i, got, param)
		}
	}
}
