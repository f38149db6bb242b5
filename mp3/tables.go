package mp3

// Scale-factor band boundary tables, one row per SampleRateIdx (0..8 as
// defined in header.go: MPEG1 44.1/48/32 kHz, MPEG2 22.05/24/16 kHz,
// MPEG2.5 11.025/12/8 kHz). Each row lists cumulative sample-index
// boundaries; band i spans [table[i], table[i+1]).
//
// Transcribed directly from
// symphonia-bundle-mp3/src/common.rs's SFB_LONG_BANDS/SFB_SHORT_BANDS/
// SFB_MIXED_BANDS/SFB_MIXED_SWITCH_POINT constants.
var sfbLongBands = [9][23]int{
	{0, 4, 8, 12, 16, 20, 24, 30, 36, 44, 52, 62, 74, 90, 110, 134, 162, 196, 238, 288, 342, 418, 576},
	{0, 4, 8, 12, 16, 20, 24, 30, 36, 42, 50, 60, 72, 88, 106, 128, 156, 190, 230, 276, 330, 384, 576},
	{0, 4, 8, 12, 16, 20, 24, 30, 36, 44, 54, 66, 82, 102, 126, 156, 194, 240, 296, 364, 448, 550, 576},
	{0, 6, 12, 18, 24, 30, 36, 44, 54, 66, 80, 96, 116, 140, 168, 200, 238, 284, 336, 396, 464, 522, 576},
	{0, 6, 12, 18, 24, 30, 36, 44, 54, 66, 80, 96, 114, 136, 162, 194, 232, 278, 332, 394, 464, 540, 576},
	{0, 6, 12, 18, 24, 30, 36, 44, 54, 66, 80, 96, 116, 140, 168, 200, 238, 284, 336, 396, 464, 522, 576},
	{0, 6, 12, 18, 24, 30, 36, 44, 54, 66, 80, 96, 116, 140, 168, 200, 238, 284, 336, 396, 464, 522, 576},
	{0, 6, 12, 18, 24, 30, 36, 44, 54, 66, 80, 96, 116, 140, 168, 200, 238, 284, 336, 396, 464, 522, 576},
	{0, 12, 24, 36, 48, 60, 72, 88, 108, 132, 160, 192, 232, 280, 336, 400, 476, 566, 568, 570, 572, 574, 576},
}

var sfbShortBands = [9][14]int{
	{0, 4, 8, 12, 16, 22, 30, 40, 52, 66, 84, 106, 136, 192},
	{0, 4, 8, 12, 16, 22, 30, 42, 58, 78, 104, 138, 180, 192},
	{0, 4, 8, 12, 16, 22, 30, 42, 58, 78, 104, 138, 180, 192},
	{0, 4, 8, 12, 16, 22, 30, 40, 52, 66, 84, 106, 136, 192},
	{0, 4, 8, 12, 16, 22, 28, 38, 50, 64, 80, 100, 126, 192},
	{0, 4, 8, 12, 16, 22, 30, 40, 52, 66, 84, 106, 136, 192},
	{0, 4, 8, 12, 16, 22, 30, 40, 52, 66, 84, 106, 136, 192},
	{0, 4, 8, 12, 16, 22, 30, 40, 52, 66, 84, 106, 136, 192},
	{0, 8, 16, 24, 36, 52, 72, 96, 124, 160, 162, 164, 166, 192},
}

// mixedShortStartSfb is the short-block scale-factor band index a mixed
// granule's short-window data starts at (bands 0-2 of the short table
// cover the same low-frequency region as the mixed block's long part),
// per the fixed convention documented in scalefactors.go.
const mixedShortStartSfb = 3

// sfbMixedSwitchPoint is the long-block scale-factor band index (in
// sfbLongBands) at which a mixed block switches from the long-block band
// layout to the short-block layout; it also names the sample index
// (sfbLongBands[idx][switchPoint]) where short-window bands begin.
var sfbMixedSwitchPoint = [9]int{8, 8, 8, 6, 6, 6, 6, 6, 3}

// pretab is the additive scale-factor offset applied per band when a
// granule's Preflag bit is set (long blocks only), per
// sonata-codec-mp3/src/layer3/requantize.rs's PRETAB constant.
var pretab = [22]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 3, 3, 3, 2, 0}

// scalefacSizesMpeg1 gives the (slen1, slen2) bit widths used to read the
// 4-group MPEG1 scale-factor selection information, indexed by
// ScalefacCompress (0..15). Transcribed from
// farcloser-saprobe/third-party-go-mp3's maindata.go scalefacSizesMpeg1
// table (itself the standard ISO 11172-3 Table B.4 values).
var scalefacSizesMpeg1 = [16][2]int{
	{0, 0}, {0, 1}, {0, 2}, {0, 3}, {3, 0}, {1, 1}, {1, 2}, {1, 3},
	{2, 1}, {2, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}, {4, 2}, {4, 3},
}

// scalefacSizesMpeg2 gives the per-region bit widths used to read MPEG2
// (and MPEG2.5) scale-factor information, indexed by
// [blockTypeClass][ScalefacCompress%something], matching
// farcloser-saprobe/third-party-go-mp3's getScaleFactorsMpeg2 table
// layout (blockTypeClass: 0 = long/mixed with intensity off path variants
// collapsed per that file's nSlen2-driven derivation).
var scalefacSizesMpeg2 = [3][6][4]int{
	{{6, 5, 5, 5}, {6, 5, 7, 3}, {11, 10, 0, 0}, {7, 7, 7, 0}, {6, 6, 6, 3}, {8, 8, 5, 0}},
	{{6, 5, 5, 5}, {6, 5, 7, 3}, {11, 10, 0, 0}, {7, 7, 7, 0}, {6, 6, 6, 3}, {8, 8, 5, 0}},
	{{6, 5, 5, 5}, {6, 5, 7, 3}, {11, 10, 0, 0}, {7, 7, 7, 0}, {6, 6, 6, 3}, {8, 8, 5, 0}},
}
