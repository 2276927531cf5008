// File: lixenwraith/chain/output.go
package chain

import "slices"

// Output holds the output.* settings of a configuration
type Output struct {
	ChainedMap[*Config, *Output]
}

// NewOutput creates the output node of parent
func NewOutput(parent *Config) *Output {
	o := &Output{}
	o.setup(parent, o)
	return o
}

var outputShorthands = []string{
	"assetModuleFilename",
	"asyncChunks",
	"auxiliaryComment",
	"charset",
	"chunkFilename",
	"chunkFormat",
	"chunkLoadTimeout",
	"chunkLoadingGlobal",
	"chunkLoading",
	"clean",
	"compareBeforeEmit",
	"crossOriginLoading",
	"cssChunkFilename",
	"cssFilename",
	"devtoolFallbackModuleFilenameTemplate",
	"devtoolModuleFilenameTemplate",
	"devtoolNamespace",
	"enabledChunkLoadingTypes",
	"enabledLibraryTypes",
	"enabledWasmLoadingTypes",
	"environment",
	"filename",
	"globalObject",
	"hashDigest",
	"hashDigestLength",
	"hashFunction",
	"hashSalt",
	"hotUpdateChunkFilename",
	"hotUpdateGlobal",
	"hotUpdateMainFilename",
	"iife",
	"ignoreBrowserWarnings",
	"importFunctionName",
	"importMetaName",
	"library",
	"libraryExport",
	"libraryTarget",
	"module",
	"path",
	"pathinfo",
	"publicPath",
	"scriptType",
	"sourceMapFilename",
	"sourcePrefix",
	"strictModuleErrorHandling",
	"strictModuleExceptionHandling",
	"trustedTypes",
	"umdNamedDefine",
	"uniqueName",
	"wasmLoading",
	"webassemblyModuleFilename",
	"workerChunkLoading",
	"workerPublicPath",
	"workerWasmLoading",
}

// Shorthands lists the field names with a dedicated setter
func (o *Output) Shorthands() []string {
	return slices.Clone(outputShorthands)
}

func (o *Output) AssetModuleFilename(v any) *Output { return o.Set("assetModuleFilename", v) }
func (o *Output) AsyncChunks(v any) *Output { return o.Set("asyncChunks", v) }
func (o *Output) AuxiliaryComment(v any) *Output { return o.Set("auxiliaryComment", v) }
func (o *Output) Charset(v any) *Output { return o.Set("charset", v) }
func (o *Output) ChunkFilename(v any) *Output { return o.Set("chunkFilename", v) }
func (o *Output) ChunkFormat(v any) *Output { return o.Set("chunkFormat", v) }
func (o *Output) ChunkLoadTimeout(v any) *Output { return o.Set("chunkLoadTimeout", v) }
func (o *Output) ChunkLoadingGlobal(v any) *Output { return o.Set("chunkLoadingGlobal", v) }
func (o *Output) ChunkLoading(v any) *Output { return o.Set("chunkLoading", v) }
func (o *Output) Clean(v any) *Output { return o.Set("clean", v) }
func (o *Output) CompareBeforeEmit(v any) *Output { return o.Set("compareBeforeEmit", v) }
func (o *Output) CrossOriginLoading(v any) *Output { return o.Set("crossOriginLoading", v) }
func (o *Output) CssChunkFilename(v any) *Output { return o.Set("cssChunkFilename", v) }
func (o *Output) CssFilename(v any) *Output { return o.Set("cssFilename", v) }
func (o *Output) DevtoolFallbackModuleFilenameTemplate(v any) *Output { return o.Set("devtoolFallbackModuleFilenameTemplate", v) }
func (o *Output) DevtoolModuleFilenameTemplate(v any) *Output { return o.Set("devtoolModuleFilenameTemplate", v) }
func (o *Output) DevtoolNamespace(v any) *Output { return o.Set("devtoolNamespace", v) }
func (o *Output) EnabledChunkLoadingTypes(v any) *Output { return o.Set("enabledChunkLoadingTypes", v) }
func (o *Output) EnabledLibraryTypes(v any) *Output { return o.Set("enabledLibraryTypes", v) }
func (o *Output) EnabledWasmLoadingTypes(v any) *Output { return o.Set("enabledWasmLoadingTypes", v) }
func (o *Output) Environment(v any) *Output { return o.Set("environment", v) }
func (o *Output) Filename(v any) *Output { return o.Set("filename", v) }
func (o *Output) GlobalObject(v any) *Output { return o.Set("globalObject", v) }
func (o *Output) HashDigest(v any) *Output { return o.Set("hashDigest", v) }
func (o *Output) HashDigestLength(v any) *Output { return o.Set("hashDigestLength", v) }
func (o *Output) HashFunction(v any) *Output { return o.Set("hashFunction", v) }
func (o *Output) HashSalt(v any) *Output { return o.Set("hashSalt", v) }
func (o *Output) HotUpdateChunkFilename(v any) *Output { return o.Set("hotUpdateChunkFilename", v) }
func (o *Output) HotUpdateGlobal(v any) *Output { return o.Set("hotUpdateGlobal", v) }
func (o *Output) HotUpdateMainFilename(v any) *Output { return o.Set("hotUpdateMainFilename", v) }
func (o *Output) Iife(v any) *Output { return o.Set("iife", v) }
func (o *Output) IgnoreBrowserWarnings(v any) *Output { return o.Set("ignoreBrowserWarnings", v) }
func (o *Output) ImportFunctionName(v any) *Output { return o.Set("importFunctionName", v) }
func (o *Output) ImportMetaName(v any) *Output { return o.Set("importMetaName", v) }
func (o *Output) Library(v any) *Output { return o.Set("library", v) }
func (o *Output) LibraryExport(v any) *Output { return o.Set("libraryExport", v) }
func (o *Output) LibraryTarget(v any) *Output { return o.Set("libraryTarget", v) }
func (o *Output) Module(v any) *Output { return o.Set("module", v) }
func (o *Output) Path(v any) *Output { return o.Set("path", v) }
func (o *Output) Pathinfo(v any) *Output { return o.Set("pathinfo", v) }
func (o *Output) PublicPath(v any) *Output { return o.Set("publicPath", v) }
func (o *Output) ScriptType(v any) *Output { return o.Set("scriptType", v) }
func (o *Output) SourceMapFilename(v any) *Output { return o.Set("sourceMapFilename", v) }
func (o *Output) SourcePrefix(v any) *Output { return o.Set("sourcePrefix", v) }
func (o *Output) StrictModuleErrorHandling(v any) *Output { return o.Set("strictModuleErrorHandling", v) }
func (o *Output) StrictModuleExceptionHandling(v any) *Output { return o.Set("strictModuleExceptionHandling", v) }
func (o *Output) TrustedTypes(v any) *Output { return o.Set("trustedTypes", v) }
func (o *Output) UmdNamedDefine(v any) *Output { return o.Set("umdNamedDefine", v) }
func (o *Output) UniqueName(v any) *Output { return o.Set("uniqueName", v) }
func (o *Output) WasmLoading(v any) *Output { return o.Set("wasmLoading", v) }
func (o *Output) WebassemblyModuleFilename(v any) *Output { return o.Set("webassemblyModuleFilename", v) }
func (o *Output) WorkerChunkLoading(v any) *Output { return o.Set("workerChunkLoading", v) }
func (o *Output) WorkerPublicPath(v any) *Output { return o.Set("workerPublicPath", v) }
func (o *Output) WorkerWasmLoading(v any) *Output { return o.Set("workerWasmLoading", v) }
