package gfx

// Limits are device resource limits. A zero field means "no requirement".
type Limits struct {
	MaxTextureDimension1D                     uint32
	MaxTextureDimension2D                     uint32
	MaxTextureDimension3D                     uint32
	MaxTextureArrayLayers                     uint32
	MaxBindGroups                             uint32
	MaxDynamicUniformBuffersPerPipelineLayout uint32
	MaxDynamicStorageBuffersPerPipelineLayout uint32
	MaxSampledTexturesPerShaderStage          uint32
	MaxSamplersPerShaderStage                 uint32
	MaxStorageBuffersPerShaderStage           uint32
	MaxStorageTexturesPerShaderStage          uint32
	MaxUniformBuffersPerShaderStage           uint32
	MaxUniformBufferBindingSize               uint64
	MaxStorageBufferBindingSize               uint64
	MinUniformBufferOffsetAlignment           uint32
	MinStorageBufferOffsetAlignment           uint32
	MaxVertexBuffers                          uint32
	MaxBufferSize                             uint64
	MaxVertexAttributes                       uint32
	MaxVertexBufferArrayStride                uint32
	MaxComputeWorkgroupStorageSize            uint32
	MaxComputeInvocationsPerWorkgroup         uint32
	MaxComputeWorkgroupSizeX                  uint32
	MaxComputeWorkgroupSizeY                  uint32
	MaxComputeWorkgroupSizeZ                  uint32
	MaxComputeWorkgroupsPerDimension          uint32
}

// DownlevelWebGL2Limits returns the most conservative limit tier: what a
// WebGL2-class device guarantees. Requesting these lets the context run on the
// widest range of GPUs and browsers.
func DownlevelWebGL2Limits() Limits {
	return Limits{
		MaxTextureDimension1D:                     2048,
		MaxTextureDimension2D:                     2048,
		MaxTextureDimension3D:                     256,
		MaxTextureArrayLayers:                     256,
		MaxBindGroups:                             4,
		MaxDynamicUniformBuffersPerPipelineLayout: 8,
		MaxDynamicStorageBuffersPerPipelineLayout: 0,
		MaxSampledTexturesPerShaderStage:          16,
		MaxSamplersPerShaderStage:                 16,
		MaxStorageBuffersPerShaderStage:           0,
		MaxStorageTexturesPerShaderStage:          0,
		MaxUniformBuffersPerShaderStage:           11,
		MaxUniformBufferBindingSize:               16 << 10,
		MaxStorageBufferBindingSize:               0,
		MinUniformBufferOffsetAlignment:           256,
		MinStorageBufferOffsetAlignment:           256,
		MaxVertexBuffers:                          8,
		MaxBufferSize:                             256 << 20,
		MaxVertexAttributes:                       16,
		MaxVertexBufferArrayStride:                255,
		MaxComputeWorkgroupStorageSize:            0,
		MaxComputeInvocationsPerWorkgroup:         0,
		MaxComputeWorkgroupSizeX:                  0,
		MaxComputeWorkgroupSizeY:                  0,
		MaxComputeWorkgroupSizeZ:                  0,
		MaxComputeWorkgroupsPerDimension:          0,
	}
}

// NamedLimit is a single limit keyed by its WebGPU name.
type NamedLimit struct {
	Name  string
	Value uint64
}

// Named returns the non-zero limits keyed by their WebGPU names, in declaration order.
func (l Limits) Named() []NamedLimit {
	all := []NamedLimit{
		{"maxTextureDimension1D", uint64(l.MaxTextureDimension1D)},
		{"maxTextureDimension2D", uint64(l.MaxTextureDimension2D)},
		{"maxTextureDimension3D", uint64(l.MaxTextureDimension3D)},
		{"maxTextureArrayLayers", uint64(l.MaxTextureArrayLayers)},
		{"maxBindGroups", uint64(l.MaxBindGroups)},
		{"maxDynamicUniformBuffersPerPipelineLayout", uint64(l.MaxDynamicUniformBuffersPerPipelineLayout)},
		{"maxDynamicStorageBuffersPerPipelineLayout", uint64(l.MaxDynamicStorageBuffersPerPipelineLayout)},
		{"maxSampledTexturesPerShaderStage", uint64(l.MaxSampledTexturesPerShaderStage)},
		{"maxSamplersPerShaderStage", uint64(l.MaxSamplersPerShaderStage)},
		{"maxStorageBuffersPerShaderStage", uint64(l.MaxStorageBuffersPerShaderStage)},
		{"maxStorageTexturesPerShaderStage", uint64(l.MaxStorageTexturesPerShaderStage)},
		{"maxUniformBuffersPerShaderStage", uint64(l.MaxUniformBuffersPerShaderStage)},
		{"maxUniformBufferBindingSize", l.MaxUniformBufferBindingSize},
		{"maxStorageBufferBindingSize", l.MaxStorageBufferBindingSize},
		{"minUniformBufferOffsetAlignment", uint64(l.MinUniformBufferOffsetAlignment)},
		{"minStorageBufferOffsetAlignment", uint64(l.MinStorageBufferOffsetAlignment)},
		{"maxVertexBuffers", uint64(l.MaxVertexBuffers)},
		{"maxBufferSize", l.MaxBufferSize},
		{"maxVertexAttributes", uint64(l.MaxVertexAttributes)},
		{"maxVertexBufferArrayStride", uint64(l.MaxVertexBufferArrayStride)},
		{"maxComputeWorkgroupStorageSize", uint64(l.MaxComputeWorkgroupStorageSize)},
		{"maxComputeInvocationsPerWorkgroup", uint64(l.MaxComputeInvocationsPerWorkgroup)},
		{"maxComputeWorkgroupSizeX", uint64(l.MaxComputeWorkgroupSizeX)},
		{"maxComputeWorkgroupSizeY", uint64(l.MaxComputeWorkgroupSizeY)},
		{"maxComputeWorkgroupSizeZ", uint64(l.MaxComputeWorkgroupSizeZ)},
		{"maxComputeWorkgroupsPerDimension", uint64(l.MaxComputeWorkgroupsPerDimension)},
	}
	var named []NamedLimit
	for _, nl := range all {
		if nl.Value != 0 {
			named = append(named, nl)
		}
	}
	return named
}
