package commands

import "github.com/nullterm/escreceipt/internal/command"

// Catalog returns the full registered command descriptor set in no
// particular order; internal/parser only cares about prefix bytes, not
// registration order, beyond the longest-match rule it applies itself.
func Catalog() []*command.Descriptor {
	return []*command.Descriptor{
		InitializeDescriptor,
		FullCutDescriptor,
		PartialCutDescriptor,
		FeedLinesDescriptor,
		LineFeedDescriptor,
		CarriageReturnDescriptor,
		HorizontalTabDescriptor,

		BoldDescriptor,
		ItalicDescriptor,
		UpsideDownDescriptor,
		UnderlineDescriptor,
		StrikethroughDescriptor,
		FontSelectDescriptor,
		JustifyDescriptor,
		CodeTableDescriptor,
		CharacterSetDescriptor,
		InvertDescriptor,
		SmoothingDescriptor,
		CharSizeDescriptor,

		BeginPageModeDescriptor,
		EndPageModeDescriptor,
		PrintPageModeDescriptor,
		ChangePageAreaDescriptor,
		ChangePageModeDirectionDescriptor,

		BarcodeDescriptor,
		Code2DDescriptor,
		RasterImageDescriptor,
		ColumnBitImageDescriptor,
		LargeGraphicsDescriptor,
		StoredGraphicsDescriptor,
	}
}

// Default is the distinguished text-absorbing descriptor the parser falls
// back to for any byte matching no registered prefix.
func Default() *command.Descriptor {
	return DefaultDescriptor
}
