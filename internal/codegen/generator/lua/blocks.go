package lua

// Members every resolved class carries, appended according to its
// layout.Defaults bits.
const (
	baseMethods = `---@field sizeof fun(self: self): integer
---@field new fun(self: self): self
`

	typedObjectMethods = `---@field assign fun(self: self, obj: self): nil
---@field delete fun(self: self): boolean
---@field _displace fun(self: self, index: integer): self
---@field _kind "primitive"|"struct"|"container"|"bitfield"
---@field _type table | string
`

	namedTypeMethods = `---@field is_instance fun(self: self, obj: any): boolean
---@field _identity lightuserdata
---@field _kind "struct-type"|"class-type"|"enum-type"|"bitfield-type"|"global"
---@field _fields table<string, { name: string, offset: integer, count: integer, mode: any, type_name?: string, type?: any, type_identity?: lightuserdata, index_enum?: any, union_tag_field?: string, union_tag_attr?: string, original_name?: string }>
`

	structMethods = `---@field vmethod fun(self: self, ...): any
---@field is_instance fun(self: self, obj: any): boolean
`

	// <ELEMENT> is replaced by the container's element type.
	containerMethods = `---@field resize fun(self: self, size: integer): nil
---@field insert fun(self: self, index: "#"|integer, item: <ELEMENT>): nil
---@field erase fun(self: self, index: integer): nil
`

	findMethod = "---@field find fun(id: integer): self|nil\n"
)

// modulesGlue declares the module loader globals used by every script.
const modulesGlue = "---@generic T\n" +
	"---@param module `T`\n" +
	"---@return T | _G | _global\n" +
	"function mkmodule(module) end\n" +
	"\n" +
	"---@generic T\n" +
	"---@param module `T`\n" +
	"---@return T\n" +
	"function require(module) end\n" +
	"\n" +
	"-- Create or updates a class; a class has metamethods and thus own metatable.\n" +
	"---@param class any\n" +
	"---@param parent any\n" +
	"---@return any\n" +
	"function defclass(class, parent) end\n"
