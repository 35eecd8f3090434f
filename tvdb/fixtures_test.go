package tvdb

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "ABCDEF0123456789"

const searchXML = `<?xml version="1.0" encoding="UTF-8" ?>
<Data>
<Series>
<seriesid>80379</seriesid>
<language>en</language>
<SeriesName>The Big Bang Theory</SeriesName>
<banner>graphical/80379-g13.jpg</banner>
<Overview>Mensa-fied best friends and roommates Leonard and Sheldon.</Overview>
<FirstAired>2007-09-24</FirstAired>
<Network>CBS</Network>
<IMDB_ID>tt0898266</IMDB_ID>
<id>80379</id>
</Series>
<Series>
<seriesid>257655</seriesid>
<language>en</language>
<SeriesName>Arrow</SeriesName>
<FirstAired>2012-10-10</FirstAired>
<id>257655</id>
</Series>
</Data>`

const seriesXML = `<?xml version="1.0" encoding="UTF-8" ?>
<Data>
<Series>
<id>80379</id>
<Actors>|Johnny Galecki|Jim Parsons| Kaley Cuoco |</Actors>
<FirstAired>2007-09-24</FirstAired>
<Genre>|Comedy|</Genre>
<IMDB_ID>tt0898266</IMDB_ID>
<Language>en</Language>
<Network>CBS</Network>
<Overview>Mensa-fied best friends and roommates Leonard and Sheldon.</Overview>
<Runtime>25</Runtime>
<SeriesName>The Big Bang Theory</SeriesName>
<Status>Continuing</Status>
<banner>graphical/80379-g13.jpg</banner>
<fanart>fanart/original/80379-34.jpg</fanart>
<poster>posters/80379-22.jpg</poster>
<language>en</language>
</Series>
</Data>`

const episodeXML = `<?xml version="1.0" encoding="UTF-8" ?>
<Data>
<Episode>
<id>332484</id>
<Director>James Burrows</Director>
<EpisodeName>Pilot</EpisodeName>
<EpisodeNumber>1</EpisodeNumber>
<FirstAired>2007-09-24</FirstAired>
<GuestStars>|Vernee Watson-Johnson|</GuestStars>
<IMDB_ID></IMDB_ID>
<Language>en</Language>
<Overview>Brilliant physicist roommates Leonard and Sheldon meet their new neighbor Penny.</Overview>
<SeasonNumber>1</SeasonNumber>
<Writer>|Chuck Lorre|Bill Prady|</Writer>
<filename>episodes/80379/332484.jpg</filename>
<seriesid>80379</seriesid>
</Episode>
</Data>`

const fullRecordXML = `<?xml version="1.0" encoding="UTF-8" ?>
<Data>
<Series>
<id>80379</id>
<SeriesName>The Big Bang Theory</SeriesName>
<FirstAired>2007-09-24</FirstAired>
<Status>Continuing</Status>
<poster>posters/80379-22.jpg</poster>
</Series>
<Episode>
<id>332484</id>
<EpisodeName>Pilot</EpisodeName>
<EpisodeNumber>1</EpisodeNumber>
<SeasonNumber>1</SeasonNumber>
<FirstAired>2007-09-24</FirstAired>
<seriesid>80379</seriesid>
</Episode>
<Episode>
<id>332487</id>
<EpisodeName>The Big Bran Hypothesis</EpisodeName>
<EpisodeNumber>2</EpisodeNumber>
<SeasonNumber>1</SeasonNumber>
<FirstAired>2007-10-01</FirstAired>
<seriesid>80379</seriesid>
</Episode>
<Episode>
<id>383721</id>
<EpisodeName>The Bad Fish Paradigm</EpisodeName>
<EpisodeNumber>1</EpisodeNumber>
<SeasonNumber>2</SeasonNumber>
<FirstAired>2008-09-22</FirstAired>
<seriesid>80379</seriesid>
</Episode>
<Episode>
<id>1287201</id>
<EpisodeName>Unaired Pilot</EpisodeName>
<EpisodeNumber>1</EpisodeNumber>
<SeasonNumber>0</SeasonNumber>
<seriesid>80379</seriesid>
</Episode>
</Data>`

// zipped packs doc into an archive with a single member.
func zipped(t *testing.T, member, doc string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(member)
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
